package room

import (
	"context"
	"time"

	"github.com/mauv0809/matchday/internal/model"
)

// Controller owns the lifecycle of game rooms. Every mutating operation
// takes the id of the authenticated caller and runs atomically with respect
// to other operations on the same room.
type Controller interface {
	CreateRoom(ctx context.Context, creatorID string, params CreateParams) (*model.Room, error)
	GetRoom(ctx context.Context, roomID string) (*model.Room, error)
	// ListRooms returns the joinable rooms: not completed and not full.
	ListRooms(ctx context.Context, filter ListFilter) ([]*model.Room, error)
	// ActiveRooms returns the non-completed rooms userID is a member of.
	ActiveRooms(ctx context.Context, userID string) ([]*model.Room, error)
	JoinRoom(ctx context.Context, roomID, userID string) (*JoinResult, error)
	LeaveRoom(ctx context.Context, roomID, userID string) (*LeaveResult, error)
	DeleteRoom(ctx context.Context, roomID, callerID string) error
	StartTeamSelection(ctx context.Context, roomID, callerID string) (*model.Room, error)
	StartGame(ctx context.Context, roomID, callerID string) (*model.Room, error)
	EndGame(ctx context.Context, roomID, callerID string) (*model.Room, error)
	SubmitScore(ctx context.Context, roomID, callerID, score string) (*SubmitResult, error)
	ReportPlayer(ctx context.Context, roomID, reporterID, reportedUserID, reason string) (*model.Complaint, error)
	// ExpireStaleSubmissions closes rooms whose score submission started
	// before cutoff as an unpenalised 0:0 draw and returns their ids.
	ExpireStaleSubmissions(ctx context.Context, cutoff time.Time) ([]string, error)
}
