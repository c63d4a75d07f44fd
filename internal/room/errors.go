package room

import (
	"errors"
	"fmt"

	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/rating"
)

var (
	ErrRoomNotFound           = errors.New("room not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrRoomFull               = errors.New("room is full")
	ErrAlreadyInAnotherRoom   = errors.New("user is already in another active room")
	ErrAlreadyMember          = errors.New("user is already a member of this room")
	ErrNotCreator             = errors.New("only the room creator can do this")
	ErrTooFewPlayers          = errors.New("at least two players are required")
	ErrNotAuthorized          = errors.New("only the creator or a captain can do this")
	ErrNotCaptain             = errors.New("only captains can submit scores")
	ErrNotMember              = errors.New("user is not a member of this room")
	ErrInvalidTarget          = errors.New("reported user is not a member of this room")
	ErrInvalidInput           = errors.New("invalid input")
)

// ActiveRoomsError is returned when a user tries to enter a room while
// still a member of another non-completed one.
type ActiveRoomsError struct {
	Rooms []*model.Room
}

func (e *ActiveRoomsError) Error() string {
	return fmt.Sprintf("%s (%d active)", ErrAlreadyInAnotherRoom, len(e.Rooms))
}

func (e *ActiveRoomsError) Unwrap() error {
	return ErrAlreadyInAnotherRoom
}

// TransitionError describes an action attempted from a status that does not allow it.
type TransitionError struct {
	From   model.RoomStatus
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while room is %s", ErrInvalidStateTransition, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// ErrorKind groups controller errors by how a caller should react to them.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindInternal   ErrorKind = "internal"
)

// Kind classifies err. Anything unrecognised is internal.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, rating.ErrInvalidScoreFormat),
		errors.Is(err, ErrTooFewPlayers):
		return KindValidation
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, player.ErrNotFound),
		errors.Is(err, ErrInvalidTarget):
		return KindNotFound
	case errors.Is(err, ErrNotCreator),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrNotCaptain),
		errors.Is(err, ErrNotMember):
		return KindForbidden
	case errors.Is(err, ErrInvalidStateTransition),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrAlreadyInAnotherRoom),
		errors.Is(err, ErrAlreadyMember):
		return KindConflict
	}
	return KindInternal
}
