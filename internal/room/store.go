package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mauv0809/matchday/internal/database"
	"github.com/mauv0809/matchday/internal/model"
)

const roomColumns = `r.id, r.name, r.creator_id, r.max_players, r.location, r.time_range, r.created_at, r.status,
	r.captain_a_id, r.captain_b_id, r.score_a, r.score_b, r.captain_a_submitted, r.captain_b_submitted,
	r.captain_a_score_submission, r.captain_b_score_submission, r.score_submission_attempts, r.score_mismatch,
	r.start_time, r.end_time`

// memberTables maps each membership table to the slice of the room it stores.
var memberTables = []struct {
	table string
	field func(r *model.Room) *[]string
}{
	{"game_room_players", func(r *model.Room) *[]string { return &r.Players }},
	{"team_a_players", func(r *model.Room) *[]string { return &r.TeamA }},
	{"team_b_players", func(r *model.Room) *[]string { return &r.TeamB }},
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(row scanner) (*model.Room, error) {
	var (
		r                        model.Room
		status                   string
		createdAt                int64
		captainA, captainB       sql.NullString
		scoreA, scoreB           sql.NullInt64
		submissionA, submissionB sql.NullString
		startTime, endTime       sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.Name, &r.CreatorID, &r.MaxPlayers, &r.Location, &r.TimeRange, &createdAt, &status,
		&captainA, &captainB, &scoreA, &scoreB, &r.CaptainASubmitted, &r.CaptainBSubmitted,
		&submissionA, &submissionB, &r.ScoreSubmissionAttempts, &r.ScoreMismatch,
		&startTime, &endTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to scan room: %w", err)
	}
	r.Status = model.RoomStatus(status)
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	r.CaptainA = captainA.String
	r.CaptainB = captainB.String
	r.ScoreA = fromNullInt(scoreA)
	r.ScoreB = fromNullInt(scoreB)
	r.CaptainASubmission = submissionA.String
	r.CaptainBSubmission = submissionB.String
	r.StartTime = fromNullUnix(startTime)
	r.EndTime = fromNullUnix(endTime)
	return &r, nil
}

// loadRoom reads a room and its membership lists through q.
func loadRoom(ctx context.Context, q database.Querier, roomID string) (*model.Room, error) {
	row := q.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM game_rooms r WHERE r.id = ?`, roomID)
	r, err := scanRoom(row)
	if err != nil {
		return nil, err
	}
	if err := loadMembers(ctx, q, r); err != nil {
		return nil, err
	}
	return r, nil
}

func loadMembers(ctx context.Context, q database.Querier, r *model.Room) error {
	for _, mt := range memberTables {
		ids, err := queryIDs(ctx, q, `SELECT user_id FROM `+mt.table+` WHERE game_room_id = ? ORDER BY position`, r.ID)
		if err != nil {
			return fmt.Errorf("failed to load %s of room %s: %w", mt.table, r.ID, err)
		}
		*mt.field(r) = ids
	}
	return nil
}

// queryRooms runs a room query and loads the members of every result.
func queryRooms(ctx context.Context, q database.Querier, query string, args ...any) ([]*model.Room, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	var rooms []*model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		rooms = append(rooms, r)
	}
	// Members are loaded after closing the cursor; a single-connection pool
	// cannot serve nested queries.
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, r := range rooms {
		if err := loadMembers(ctx, q, r); err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func insertRoom(ctx context.Context, q database.Querier, r *model.Room) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO game_rooms (id, name, creator_id, max_players, location, time_range, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.CreatorID, r.MaxPlayers, r.Location, r.TimeRange, r.CreatedAt.Unix(), string(r.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return saveMembers(ctx, q, r)
}

// saveRoom writes every mutable column of r.
func saveRoom(ctx context.Context, q database.Querier, r *model.Room) error {
	_, err := q.ExecContext(ctx, `
		UPDATE game_rooms SET
			creator_id = ?, status = ?, captain_a_id = ?, captain_b_id = ?, score_a = ?, score_b = ?,
			captain_a_submitted = ?, captain_b_submitted = ?, captain_a_score_submission = ?, captain_b_score_submission = ?,
			score_submission_attempts = ?, score_mismatch = ?, start_time = ?, end_time = ?
		WHERE id = ?`,
		r.CreatorID, string(r.Status), toNullString(r.CaptainA), toNullString(r.CaptainB), toNullInt(r.ScoreA), toNullInt(r.ScoreB),
		r.CaptainASubmitted, r.CaptainBSubmitted, toNullString(r.CaptainASubmission), toNullString(r.CaptainBSubmission),
		r.ScoreSubmissionAttempts, r.ScoreMismatch, toNullUnix(r.StartTime), toNullUnix(r.EndTime),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", r.ID, err)
	}
	return nil
}

// saveMembers replaces the stored membership lists with the ones in r.
func saveMembers(ctx context.Context, q database.Querier, r *model.Room) error {
	for _, mt := range memberTables {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+mt.table+` WHERE game_room_id = ?`, r.ID); err != nil {
			return fmt.Errorf("failed to clear %s of room %s: %w", mt.table, r.ID, err)
		}
		for i, userID := range *mt.field(r) {
			_, err := q.ExecContext(ctx, `INSERT INTO `+mt.table+` (game_room_id, user_id, position) VALUES (?, ?, ?)`, r.ID, userID, i)
			if err != nil {
				return fmt.Errorf("failed to add %s to %s of room %s: %w", userID, mt.table, r.ID, err)
			}
		}
	}
	return nil
}

func deleteRoom(ctx context.Context, q database.Querier, roomID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM game_rooms WHERE id = ?`, roomID); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", roomID, err)
	}
	return nil
}

func activeRoomsFor(ctx context.Context, q database.Querier, userID string) ([]*model.Room, error) {
	return queryRooms(ctx, q, `
		SELECT `+roomColumns+` FROM game_rooms r
		JOIN game_room_players p ON p.game_room_id = r.id
		WHERE p.user_id = ? AND r.status != ?
		ORDER BY r.created_at DESC, r.id`, userID, string(model.StatusCompleted))
}

// joinableRooms returns the rooms that are neither completed nor full.
func joinableRooms(ctx context.Context, q database.Querier) ([]*model.Room, error) {
	return queryRooms(ctx, q, `
		SELECT `+roomColumns+` FROM game_rooms r
		WHERE r.status != ?
		  AND (SELECT COUNT(*) FROM game_room_players p WHERE p.game_room_id = r.id) < r.max_players
		ORDER BY r.created_at DESC, r.id`, string(model.StatusCompleted))
}

// staleSubmissionRoomIDs lists rooms waiting for scores since before cutoff.
func staleSubmissionRoomIDs(ctx context.Context, q database.Querier, cutoff time.Time) ([]string, error) {
	return queryIDs(ctx, q, `
		SELECT id FROM game_rooms
		WHERE status = ? AND end_time IS NOT NULL AND end_time <= ?
		ORDER BY end_time`, string(model.StatusScoreSubmission), cutoff.Unix())
}

func insertComplaint(ctx context.Context, q database.Querier, c *model.Complaint) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO complaints (reporter_id, reported_user_id, game_room_id, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ReporterID, c.ReportedUserID, c.RoomID, c.Reason, c.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read complaint id: %w", err)
	}
	c.ID = id
	return nil
}

func queryIDs(ctx context.Context, q database.Querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
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
