package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/matchday/internal/database"
	"github.com/mauv0809/matchday/internal/model"
)

const userColumns = `id, telegram_id, username, photo_url, rating, games_played, games_won, score_mismatch_count, theme_preference, created_at`

// store is the SQL implementation of Store.
type store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new player Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func (s *store) FindOrCreateByTelegramID(ctx context.Context, telegramID int64, username, photoURL string) (*model.User, bool, error) {
	var (
		user    *model.User
		created bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID)
		u, err := scanUser(row)
		switch {
		case errors.Is(err, ErrNotFound):
			user = &model.User{
				ID:         uuid.New().String(),
				TelegramID: telegramID,
				Username:   username,
				PhotoURL:   photoURL,
				Theme:      model.ThemeLight,
				CreatedAt:  s.now().UTC().Truncate(time.Second),
			}
			created = true
			_, err := tx.ExecContext(ctx, `
				INSERT INTO users (id, telegram_id, username, photo_url, theme_preference, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				user.ID, user.TelegramID, user.Username, user.PhotoURL, string(user.Theme), user.CreatedAt.Unix(),
			)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			return nil
		case err != nil:
			return err
		}

		user = u
		if username != "" && (username != u.Username || photoURL != u.PhotoURL) {
			u.Username = username
			u.PhotoURL = photoURL
			if _, err := tx.ExecContext(ctx, `UPDATE users SET username = ?, photo_url = ? WHERE id = ?`, u.Username, u.PhotoURL, u.ID); err != nil {
				return fmt.Errorf("failed to refresh user profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Info("Registered new user", "userID", user.ID, "telegramID", telegramID)
	}
	return user, created, nil
}

func (s *store) Get(ctx context.Context, userID string) (*model.User, error) {
	return Load(ctx, s.db, userID)
}

func (s *store) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE ORDER BY created_at, id LIMIT 1`, username)
	return scanUser(row)
}

func (s *store) GetMany(ctx context.Context, userIDs []string) (map[string]*model.User, error) {
	return LoadMany(ctx, s.db, userIDs)
}

func (s *store) Leaderboard(ctx context.Context, page, perPage int) (*LeaderboardPage, error) {
	page, perPage = normalizePage(page, perPage)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (page - 1) * perPage
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY rating DESC, games_won DESC, created_at ASC, id ASC
		LIMIT ? OFFSET ?`, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	result := &LeaderboardPage{Users: []RankedUser{}, Pagination: newPagination(page, perPage, total)}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		ranked := RankedUser{Rank: offset + len(result.Users) + 1, User: *u}
		if u.GamesPlayed > 0 {
			ranked.WinRate = float64(u.GamesWon) / float64(u.GamesPlayed)
		}
		result.Users = append(result.Users, ranked)
	}
	return result, rows.Err()
}

func (s *store) History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error) {
	if _, err := Load(ctx, s.db, userID); err != nil {
		return nil, err
	}
	page, perPage = normalizePage(page, perPage)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_history WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count game history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.user_id, h.game_room_id, r.name, h.team, h.score_a, h.score_b, h.was_captain, h.was_winner,
		       h.result, h.points_earned, h.played_at, h.game_start_time, h.game_end_time
		FROM game_history h
		JOIN game_rooms r ON r.id = h.game_room_id
		WHERE h.user_id = ?
		ORDER BY h.played_at DESC, h.id DESC
		LIMIT ? OFFSET ?`, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	result := &HistoryPage{History: []model.GameHistory{}, Pagination: newPagination(page, perPage, total)}
	for rows.Next() {
		var (
			h          model.GameHistory
			team       string
			res        string
			playedAt   int64
			start, end sql.NullInt64
		)
		err := rows.Scan(&h.ID, &h.UserID, &h.RoomID, &h.RoomName, &team, &h.ScoreA, &h.ScoreB, &h.WasCaptain, &h.WasWinner,
			&res, &h.PointsEarned, &playedAt, &start, &end)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game history: %w", err)
		}
		h.Team = model.Team(team)
		h.Result = model.Result(res)
		h.PlayedAt = time.Unix(playedAt, 0).UTC()
		h.GameStartTime = fromNullUnix(start)
		h.GameEndTime = fromNullUnix(end)
		result.History = append(result.History, h)
	}
	return result, rows.Err()
}

func (s *store) SetTheme(ctx context.Context, userID string, theme model.Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET theme_preference = ? WHERE id = ?`, string(theme), userID)
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	log.Debug("Updated theme preference", "userID", userID, "theme", theme)
	return nil
}

// Load reads a single user through q.
func Load(ctx context.Context, q database.Querier, userID string) (*model.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	return scanUser(row)
}

// LoadMany reads the given users through q, keyed by id.
func LoadMany(ctx context.Context, q database.Querier, userIDs []string) (map[string]*model.User, error) {
	users := make(map[string]*model.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// SaveStats writes the rating counters of the given users through q.
func SaveStats(ctx context.Context, q database.Querier, users ...*model.User) error {
	for _, u := range users {
		_, err := q.ExecContext(ctx, `
			UPDATE users SET rating = ?, games_played = ?, games_won = ?, score_mismatch_count = ?
			WHERE id = ?`,
			u.Rating, u.GamesPlayed, u.GamesWon, u.ScoreMismatchCount, u.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to save stats for user %s: %w", u.ID, err)
		}
	}
	return nil
}

// AppendHistory inserts history rows through q.
func AppendHistory(ctx context.Context, q database.Querier, rows []model.GameHistory) error {
	for _, h := range rows {
		_, err := q.ExecContext(ctx, `
			INSERT INTO game_history (user_id, game_room_id, team, score_a, score_b, was_captain, was_winner,
				result, points_earned, played_at, game_start_time, game_end_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.UserID, h.RoomID, string(h.Team), h.ScoreA, h.ScoreB, h.WasCaptain, h.WasWinner,
			string(h.Result), h.PointsEarned, h.PlayedAt.Unix(), toNullUnix(h.GameStartTime), toNullUnix(h.GameEndTime),
		)
		if err != nil {
			return fmt.Errorf("failed to insert game history for user %s: %w", h.UserID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u         model.User
		theme     string
		createdAt int64
	)
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.PhotoURL, &u.Rating, &u.GamesPlayed, &u.GamesWon,
		&u.ScoreMismatchCount, &theme, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Theme = model.Theme(theme)
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

func toNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
