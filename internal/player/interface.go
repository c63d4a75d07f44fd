package player

import (
	"context"

	"github.com/mauv0809/matchday/internal/model"
)

// Store is the read side and profile management of registered players.
// Rating and game counters are only ever written by the room controller,
// through the transactional helpers in this package.
type Store interface {
	// FindOrCreateByTelegramID returns the user bound to a Telegram account,
	// registering it on first sight. created reports whether it was new.
	FindOrCreateByTelegramID(ctx context.Context, telegramID int64, username, photoURL string) (user *model.User, created bool, err error)
	Get(ctx context.Context, userID string) (*model.User, error)
	// FindByUsername matches usernames case-insensitively, ignoring a leading '@'.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// GetMany returns the requested users keyed by id; unknown ids are skipped.
	GetMany(ctx context.Context, userIDs []string) (map[string]*model.User, error)
	Leaderboard(ctx context.Context, page, perPage int) (*LeaderboardPage, error)
	History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error)
	SetTheme(ctx context.Context, userID string, theme model.Theme) error
}
