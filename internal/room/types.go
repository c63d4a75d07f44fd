package room

import (
	"strings"
	"time"

	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/rating"
)

// MaxSubmissionAttempts is the number of disagreeing submission rounds
// after which a room is closed as a penalised draw.
const MaxSubmissionAttempts = 3

// DefaultMaxPlayers is used when a room is created without a capacity.
const DefaultMaxPlayers = 16

// Outcome tells the caller of SubmitScore what their submission did.
type Outcome string

const (
	OutcomeAwaitingOpponent Outcome = "awaiting_opponent"
	OutcomeMismatch         Outcome = "mismatch"
	OutcomeAgreed           Outcome = "agreed"
	OutcomeForcedDraw       Outcome = "forced_draw"
	OutcomeExpired          Outcome = "expired"
)

// CreateParams are the caller supplied fields of a new room.
type CreateParams struct {
	Name       string
	MaxPlayers int
	Location   string
	TimeRange  string
}

// ListFilter narrows ListRooms. Empty fields match everything.
type ListFilter struct {
	Name       string
	Location   string
	TimeRanges []string
}

// ParseTimeRanges splits a comma separated time range filter.
func ParseTimeRanges(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (f ListFilter) matches(r *model.Room) bool {
	if f.Name != "" && !containsFold(r.Name, f.Name) {
		return false
	}
	if f.Location != "" && !containsFold(r.Location, f.Location) {
		return false
	}
	if len(f.TimeRanges) == 0 {
		return true
	}
	for _, tr := range f.TimeRanges {
		if containsFold(r.TimeRange, tr) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

type JoinResult struct {
	Room *model.Room
	// Full reports whether this join filled the room.
	Full bool
}

type LeaveResult struct {
	Room *model.Room
	// Deleted is set when the last member left and the room was removed.
	Deleted bool
	// NewCreatorID is set when the creator left and the role moved on.
	NewCreatorID string
}

type SubmitResult struct {
	Room      *model.Room
	Outcome   Outcome
	Ratings   []rating.Outcome
	Penalties []rating.Penalty
}

// CompletedEvent is published once a room reaches completed.
type CompletedEvent struct {
	RoomID    string            `msgpack:"room_id"`
	RoomName  string            `msgpack:"room_name"`
	Location  string            `msgpack:"location"`
	ScoreA    int               `msgpack:"score_a"`
	ScoreB    int               `msgpack:"score_b"`
	Reason    Outcome           `msgpack:"reason"`
	CaptainA  string            `msgpack:"captain_a"`
	CaptainB  string            `msgpack:"captain_b"`
	Outcomes  []rating.Outcome  `msgpack:"outcomes"`
	Usernames map[string]string `msgpack:"usernames"`
	EndedAt   time.Time         `msgpack:"ended_at"`
}

// MismatchEvent is published for every round of disagreeing captain scores.
type MismatchEvent struct {
	RoomID      string `msgpack:"room_id"`
	RoomName    string `msgpack:"room_name"`
	SubmissionA string `msgpack:"submission_a"`
	SubmissionB string `msgpack:"submission_b"`
	Attempt     int    `msgpack:"attempt"`
}

// ReportedEvent is published when a player files a complaint.
type ReportedEvent struct {
	ComplaintID    int64             `msgpack:"complaint_id"`
	RoomID         string            `msgpack:"room_id"`
	RoomName       string            `msgpack:"room_name"`
	ReporterID     string            `msgpack:"reporter_id"`
	ReportedUserID string            `msgpack:"reported_user_id"`
	Reason         string            `msgpack:"reason"`
	Usernames      map[string]string `msgpack:"usernames"`
	CreatedAt      time.Time         `msgpack:"created_at"`
}
