package notifier

import (
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/room"
)

// Notifier defines a high-level interface for telling moderators about room events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendMatchResult(event room.CompletedEvent, dryRun bool) error
	SendScoreMismatch(event room.MismatchEvent, dryRun bool) error
	SendComplaint(event room.ReportedEvent, dryRun bool) error

	// For formatting responses for moderator slash commands
	FormatLeaderboardResponse(users []player.RankedUser) (any, error)
	FormatPlayerStatsResponse(user *model.User, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
