package player_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/matchday/internal/database"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (player.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return player.New(db), db, dbTeardown
}

func TestFindOrCreateByTelegramID(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	user, created, err := store.FindOrCreateByTelegramID(ctx, 42, "alice", "https://t.me/a.jpg")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 0, user.Rating)
	assert.Equal(t, model.ThemeLight, user.Theme)

	again, created, err := store.FindOrCreateByTelegramID(ctx, 42, "alice_renamed", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "alice_renamed", again.Username)

	stored, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", stored.Username)
	assert.Equal(t, int64(42), stored.TelegramID)
}

func TestGet_NotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestFindByUsername(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice, _, err := store.FindOrCreateByTelegramID(ctx, 1, "Alice", "")
	require.NoError(t, err)

	for _, query := range []string{"Alice", "alice", " @ALICE "} {
		got, err := store.FindByUsername(ctx, query)
		require.NoError(t, err, query)
		assert.Equal(t, alice.ID, got.ID)
	}

	_, err = store.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, player.ErrNotFound)
	_, err = store.FindByUsername(ctx, "@")
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestGetMany(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	a, _, err := store.FindOrCreateByTelegramID(ctx, 1, "a", "")
	require.NoError(t, err)
	b, _, err := store.FindOrCreateByTelegramID(ctx, 2, "b", "")
	require.NoError(t, err)

	users, err := store.GetMany(ctx, []string{a.ID, b.ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "a", users[a.ID].Username)

	empty, err := store.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSaveStats(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	u, _, err := store.FindOrCreateByTelegramID(ctx, 1, "a", "")
	require.NoError(t, err)
	u.Rating = 120
	u.GamesPlayed = 3
	u.GamesWon = 2
	u.ScoreMismatchCount = 1
	require.NoError(t, player.SaveStats(ctx, db, u))

	stored, err := store.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, stored.Rating)
	assert.Equal(t, 3, stored.GamesPlayed)
	assert.Equal(t, 2, stored.GamesWon)
	assert.Equal(t, 1, stored.ScoreMismatchCount)
}

func TestLeaderboard(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		u, _, err := store.FindOrCreateByTelegramID(ctx, int64(i+1), fmt.Sprintf("user%02d", i), "")
		require.NoError(t, err)
		u.Rating = i * 10
		u.GamesPlayed = 4
		u.GamesWon = 1
		require.NoError(t, player.SaveStats(ctx, db, u))
	}

	first, err := store.Leaderboard(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, first.Users, 5)
	assert.Equal(t, "user11", first.Users[0].Username)
	assert.Equal(t, 1, first.Users[0].Rank)
	assert.Equal(t, 110, first.Users[0].Rating)
	assert.InDelta(t, 0.25, first.Users[0].WinRate, 1e-9)
	assert.Equal(t, player.Pagination{Page: 1, PerPage: 5, Total: 12, TotalPages: 3, HasNext: true, HasPrev: false}, first.Pagination)

	last, err := store.Leaderboard(ctx, 3, 5)
	require.NoError(t, err)
	require.Len(t, last.Users, 2)
	assert.Equal(t, 11, last.Users[0].Rank)
	assert.Equal(t, "user00", last.Users[1].Username)
	assert.False(t, last.Pagination.HasNext)

	capped, err := store.Leaderboard(ctx, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, player.MaxPerPage, capped.Pagination.PerPage)
	assert.Equal(t, 1, capped.Pagination.Page)
}

func TestHistory(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	u, _, err := store.FindOrCreateByTelegramID(ctx, 1, "a", "")
	require.NoError(t, err)

	base := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	var rows []model.GameHistory
	for i := 0; i < 3; i++ {
		roomID := fmt.Sprintf("room-%d", i)
		_, err := db.Exec(`INSERT INTO game_rooms (id, name, creator_id, created_at, status) VALUES (?, ?, ?, 0, 'completed')`,
			roomID, fmt.Sprintf("Match %d", i), u.ID)
		require.NoError(t, err)
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		end := start.Add(90 * time.Minute)
		rows = append(rows, model.GameHistory{
			UserID:        u.ID,
			RoomID:        roomID,
			Team:          model.TeamA,
			ScoreA:        i,
			ScoreB:        1,
			Result:        model.ResultDraw,
			PointsEarned:  i - 1,
			PlayedAt:      end,
			GameStartTime: &start,
			GameEndTime:   &end,
		})
	}
	require.NoError(t, player.AppendHistory(ctx, db, rows))

	page, err := store.History(ctx, u.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.History, 2)
	assert.Equal(t, "Match 2", page.History[0].RoomName)
	assert.Equal(t, "room-1", page.History[1].RoomID)
	assert.Equal(t, 90*time.Minute, page.History[0].Duration())
	assert.Equal(t, 3, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)

	_, err = store.History(ctx, "missing", 1, 10)
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestSetTheme(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	u, _, err := store.FindOrCreateByTelegramID(ctx, 1, "a", "")
	require.NoError(t, err)

	require.NoError(t, store.SetTheme(ctx, u.ID, model.ThemeDark))
	stored, err := store.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, stored.Theme)

	assert.ErrorIs(t, store.SetTheme(ctx, u.ID, "sepia"), player.ErrInvalidTheme)
	assert.ErrorIs(t, store.SetTheme(ctx, "missing", model.ThemeDark), player.ErrNotFound)
}
