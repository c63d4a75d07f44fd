package handlers

import (
	"context"
	"time"

	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/rating"
	"github.com/mauv0809/matchday/internal/room"
)

// roomView is the room as the mini-app renders it, with members expanded.
type roomView struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Creator                 *model.User      `json:"creator"`
	MaxPlayers              int              `json:"maxPlayers"`
	Location                string           `json:"location"`
	TimeRange               string           `json:"timeRange"`
	Status                  model.RoomStatus `json:"status"`
	Players                 []model.User     `json:"players"`
	TeamA                   []model.User     `json:"teamA"`
	TeamB                   []model.User     `json:"teamB"`
	CaptainA                *model.User      `json:"captainA"`
	CaptainB                *model.User      `json:"captainB"`
	ScoreA                  *int             `json:"scoreA"`
	ScoreB                  *int             `json:"scoreB"`
	CaptainASubmitted       bool             `json:"captainASubmitted"`
	CaptainBSubmitted       bool             `json:"captainBSubmitted"`
	ScoreMismatch           bool             `json:"scoreMismatch"`
	ScoreSubmissionAttempts int              `json:"scoreSubmissionAttempts"`
	StartTime               *time.Time       `json:"startTime"`
	EndTime                 *time.Time       `json:"endTime"`
	CreatedAt               time.Time        `json:"createdAt"`
}

// renderRooms expands the member ids of rooms with a single user lookup.
func renderRooms(ctx context.Context, players player.Store, rooms []*model.Room) ([]roomView, error) {
	var ids []string
	for _, r := range rooms {
		ids = append(ids, r.CreatorID)
		ids = append(ids, r.Players...)
	}
	users, err := players.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	lookup := func(id string) *model.User {
		if u, ok := users[id]; ok {
			return u
		}
		return nil
	}
	list := func(ids []string) []model.User {
		out := make([]model.User, 0, len(ids))
		for _, id := range ids {
			if u := lookup(id); u != nil {
				out = append(out, *u)
			}
		}
		return out
	}

	views := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, roomView{
			ID:                      r.ID,
			Name:                    r.Name,
			Creator:                 lookup(r.CreatorID),
			MaxPlayers:              r.MaxPlayers,
			Location:                r.Location,
			TimeRange:               r.TimeRange,
			Status:                  r.Status,
			Players:                 list(r.Players),
			TeamA:                   list(r.TeamA),
			TeamB:                   list(r.TeamB),
			CaptainA:                lookup(r.CaptainA),
			CaptainB:                lookup(r.CaptainB),
			ScoreA:                  r.ScoreA,
			ScoreB:                  r.ScoreB,
			CaptainASubmitted:       r.CaptainASubmitted,
			CaptainBSubmitted:       r.CaptainBSubmitted,
			ScoreMismatch:           r.ScoreMismatch,
			ScoreSubmissionAttempts: r.ScoreSubmissionAttempts,
			StartTime:               r.StartTime,
			EndTime:                 r.EndTime,
			CreatedAt:               r.CreatedAt,
		})
	}
	return views, nil
}

func renderRoom(ctx context.Context, players player.Store, r *model.Room) (*roomView, error) {
	views, err := renderRooms(ctx, players, []*model.Room{r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type joinResponse struct {
	Room   *roomView `json:"room"`
	IsFull bool      `json:"isFull"`
}

type leaveResponse struct {
	Room         *roomView `json:"room,omitempty"`
	Deleted      bool      `json:"deleted"`
	NewCreatorID string    `json:"newCreatorId,omitempty"`
}

type submitResponse struct {
	Room      *roomView        `json:"room"`
	Outcome   room.Outcome     `json:"outcome"`
	Ratings   []rating.Outcome `json:"ratings,omitempty"`
	Penalties []penaltyView    `json:"penalties,omitempty"`
}

type penaltyView struct {
	PlayerID    string     `json:"playerId"`
	Team        model.Team `json:"team"`
	WasCaptain  bool       `json:"wasCaptain"`
	Coefficient float64    `json:"coefficient"`
	Delta       int        `json:"delta"`
}

func penaltyViews(penalties []rating.Penalty) []penaltyView {
	out := make([]penaltyView, 0, len(penalties))
	for _, p := range penalties {
		out = append(out, penaltyView(p))
	}
	return out
}
