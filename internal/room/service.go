package room

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
	"github.com/mauv0809/matchday/internal/locker"
	"github.com/mauv0809/matchday/internal/metrics"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/rating"
)

const defaultLockTimeout = 10 * time.Second

// service is the SQL backed Controller. Room state changes run under the
// room's lock and inside a single transaction; events go out after commit.
type service struct {
	db                *sql.DB
	locks             locker.Locker
	lockTimeout       time.Duration
	rng               Rand
	engine            *rating.Engine
	pubsub            pubsub.PubSubClient
	metrics           metrics.Metrics
	now               func() time.Time
	defaultMaxPlayers int
}

// Option customises a Controller built by New.
type Option func(*service)

// WithLocker replaces the in-process locker, e.g. with a Redis one when
// several instances share the database.
func WithLocker(l locker.Locker) Option {
	return func(s *service) { s.locks = l }
}

func WithLockTimeout(d time.Duration) Option {
	return func(s *service) { s.lockTimeout = d }
}

func WithRand(r Rand) Option {
	return func(s *service) { s.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithEngine(e *rating.Engine) Option {
	return func(s *service) { s.engine = e }
}

func WithDefaultMaxPlayers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.defaultMaxPlayers = n
		}
	}
}

// New creates a new room Controller.
func New(db *sql.DB, pubsubClient pubsub.PubSubClient, metrics metrics.Metrics, opts ...Option) Controller {
	s := &service{
		db:                db,
		locks:             locker.NewLocal(),
		lockTimeout:       defaultLockTimeout,
		rng:               newTimeSeededRand(),
		engine:            rating.NewDefault(),
		pubsub:            pubsubClient,
		metrics:           metrics,
		now:               time.Now,
		defaultMaxPlayers: DefaultMaxPlayers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// lock takes keys in order and returns a func releasing them in reverse.
func (s *service) lock(ctx context.Context, keys ...string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := s.locks.Lock(ctx, key)
		if err != nil {
			release()
			return nil, fmt.Errorf("failed to lock %s: %w", key, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// mutate loads roomID under its lock and runs fn inside one transaction.
// Extra lock keys are taken after the room's own.
func (s *service) mutate(ctx context.Context, op, roomID string, fn func(tx *sql.Tx, r *model.Room) error, extraKeys ...string) error {
	defer s.observe(op, time.Now())

	unlock, err := s.lock(ctx, append([]string{locker.RoomKey(roomID)}, extraKeys...)...)
	if err != nil {
		return err
	}
	defer unlock()

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		r, err := loadRoom(ctx, tx, roomID)
		if err != nil {
			return err
		}
		return fn(tx, r)
	})
}

func (s *service) observe(op string, start time.Time) {
	s.metrics.ObserveOperationDuration(op, time.Since(start).Seconds())
}

func (s *service) transition(r *model.Room, to model.RoomStatus) {
	log.Info("Room status changed", "roomID", r.ID, "from", r.Status, "to", to)
	r.Status = to
	s.metrics.IncRoomTransition(string(to))
}

func (s *service) publish(topic pubsub.EventType, event any) {
	if err := s.pubsub.SendMessage(topic, event); err != nil {
		log.Error("Failed to publish event", "topic", topic, "error", err)
	}
}

func requireUser(ctx context.Context, q database.Querier, userID string) (*model.User, error) {
	u, err := player.Load(ctx, q, userID)
	if errors.Is(err, player.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *service) CreateRoom(ctx context.Context, creatorID string, params CreateParams) (*model.Room, error) {
	defer s.observe("create_room", time.Now())

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	maxPlayers := params.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = s.defaultMaxPlayers
	}
	if maxPlayers < 2 {
		return nil, fmt.Errorf("%w: max players must be at least 2", ErrInvalidInput)
	}

	unlock, err := s.lock(ctx, locker.UserKey(creatorID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	r := &model.Room{
		ID:         uuid.New().String(),
		Name:       name,
		CreatorID:  creatorID,
		MaxPlayers: maxPlayers,
		Location:   strings.TrimSpace(params.Location),
		TimeRange:  strings.TrimSpace(params.TimeRange),
		CreatedAt:  s.timestamp(),
		Status:     model.StatusWaiting,
		Players:    []string{creatorID},
	}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireUser(ctx, tx, creatorID); err != nil {
			return err
		}
		active, err := activeRoomsFor(ctx, tx, creatorID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return &ActiveRoomsError{Rooms: active}
		}
		return insertRoom(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRoomsCreated()
	log.Info("Created room", "roomID", r.ID, "name", r.Name, "creatorID", creatorID, "maxPlayers", r.MaxPlayers)
	return r, nil
}

func (s *service) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	return loadRoom(ctx, s.db, roomID)
}

func (s *service) ListRooms(ctx context.Context, filter ListFilter) ([]*model.Room, error) {
	rooms, err := joinableRooms(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Room, 0, len(rooms))
	for _, r := range rooms {
		if filter.matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *service) ActiveRooms(ctx context.Context, userID string) ([]*model.Room, error) {
	return activeRoomsFor(ctx, s.db, userID)
}

func (s *service) JoinRoom(ctx context.Context, roomID, userID string) (*JoinResult, error) {
	var result *JoinResult
	err := s.mutate(ctx, "join_room", roomID, func(tx *sql.Tx, r *model.Room) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if r.Status != model.StatusWaiting {
			return &TransitionError{From: r.Status, Action: "join"}
		}
		if r.IsFull() {
			return ErrRoomFull
		}
		if r.HasPlayer(userID) {
			return ErrAlreadyMember
		}
		active, err := activeRoomsFor(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return &ActiveRoomsError{Rooms: active}
		}

		r.Players = append(r.Players, userID)
		if err := saveMembers(ctx, tx, r); err != nil {
			return err
		}
		result = &JoinResult{Room: r, Full: r.IsFull()}
		return nil
	}, locker.UserKey(userID))
	if err != nil {
		return nil, err
	}
	log.Info("Player joined room", "roomID", roomID, "userID", userID, "players", len(result.Room.Players), "full", result.Full)
	return result, nil
}

func (s *service) LeaveRoom(ctx context.Context, roomID, userID string) (*LeaveResult, error) {
	var result *LeaveResult
	err := s.mutate(ctx, "leave_room", roomID, func(tx *sql.Tx, r *model.Room) error {
		if !r.HasPlayer(userID) {
			return ErrNotMember
		}
		if !r.Active() {
			return &TransitionError{From: r.Status, Action: "leave"}
		}

		newCreator := removeMember(r, userID, s.rng)
		result = &LeaveResult{Room: r, NewCreatorID: newCreator}
		if len(r.Players) == 0 {
			result.Deleted = true
			return deleteRoom(ctx, tx, r.ID)
		}
		if err := saveRoom(ctx, tx, r); err != nil {
			return err
		}
		return saveMembers(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.Deleted:
		log.Info("Last player left, room deleted", "roomID", roomID, "userID", userID)
	case result.NewCreatorID != "":
		log.Info("Creator left room", "roomID", roomID, "userID", userID, "newCreatorID", result.NewCreatorID)
	default:
		log.Info("Player left room", "roomID", roomID, "userID", userID)
	}
	return result, nil
}

func (s *service) DeleteRoom(ctx context.Context, roomID, callerID string) error {
	err := s.mutate(ctx, "delete_room", roomID, func(tx *sql.Tx, r *model.Room) error {
		if r.CreatorID != callerID {
			return ErrNotCreator
		}
		if !r.Active() {
			return &TransitionError{From: r.Status, Action: "delete"}
		}
		return deleteRoom(ctx, tx, r.ID)
	})
	if err != nil {
		return err
	}
	log.Info("Deleted room", "roomID", roomID, "callerID", callerID)
	return nil
}

func (s *service) StartTeamSelection(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	var room *model.Room
	err := s.mutate(ctx, "start_team_selection", roomID, func(tx *sql.Tx, r *model.Room) error {
		if r.CreatorID != callerID {
			return ErrNotCreator
		}
		if r.Status != model.StatusWaiting && r.Status != model.StatusTeamSelection {
			return &TransitionError{From: r.Status, Action: "start team selection"}
		}
		if len(r.Players) < 2 {
			return ErrTooFewPlayers
		}

		assignTeams(r, s.rng)
		if r.Status != model.StatusTeamSelection {
			s.transition(r, model.StatusTeamSelection)
		}
		if err := saveRoom(ctx, tx, r); err != nil {
			return err
		}
		room = r
		return saveMembers(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	log.Info("Teams assigned", "roomID", roomID, "teamA", len(room.TeamA), "teamB", len(room.TeamB),
		"captainA", room.CaptainA, "captainB", room.CaptainB)
	return room, nil
}

func (s *service) StartGame(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	var room *model.Room
	err := s.mutate(ctx, "start_game", roomID, func(tx *sql.Tx, r *model.Room) error {
		if r.CreatorID != callerID {
			return ErrNotCreator
		}
		if r.Status != model.StatusTeamSelection {
			return &TransitionError{From: r.Status, Action: "start game"}
		}
		now := s.timestamp()
		r.StartTime = &now
		s.transition(r, model.StatusInProgress)
		room = r
		return saveRoom(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) EndGame(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	var room *model.Room
	err := s.mutate(ctx, "end_game", roomID, func(tx *sql.Tx, r *model.Room) error {
		if _, isCaptain := r.CaptainTeam(callerID); r.CreatorID != callerID && !isCaptain {
			return ErrNotAuthorized
		}
		if r.Status != model.StatusInProgress {
			return &TransitionError{From: r.Status, Action: "end game"}
		}
		now := s.timestamp()
		r.EndTime = &now
		s.transition(r, model.StatusScoreSubmission)
		room = r
		return saveRoom(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) ReportPlayer(ctx context.Context, roomID, reporterID, reportedUserID, reason string) (*model.Complaint, error) {
	reason = strings.TrimSpace(reason)
	if reportedUserID == "" || reason == "" {
		return nil, fmt.Errorf("%w: reported user and reason are required", ErrInvalidInput)
	}

	var (
		complaint *model.Complaint
		event     ReportedEvent
	)
	err := s.mutate(ctx, "report_player", roomID, func(tx *sql.Tx, r *model.Room) error {
		if !r.HasPlayer(reporterID) {
			return ErrNotMember
		}
		if reportedUserID == reporterID || !r.HasPlayer(reportedUserID) {
			return ErrInvalidTarget
		}
		users, err := player.LoadMany(ctx, tx, []string{reporterID, reportedUserID})
		if err != nil {
			return err
		}

		complaint = &model.Complaint{
			ReporterID:     reporterID,
			ReportedUserID: reportedUserID,
			RoomID:         r.ID,
			Reason:         reason,
			CreatedAt:      s.timestamp(),
		}
		if err := insertComplaint(ctx, tx, complaint); err != nil {
			return err
		}
		event = ReportedEvent{
			ComplaintID:    complaint.ID,
			RoomID:         r.ID,
			RoomName:       r.Name,
			ReporterID:     reporterID,
			ReportedUserID: reportedUserID,
			Reason:         reason,
			Usernames:      usernames(users),
			CreatedAt:      complaint.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncComplaints()
	log.Info("Player reported", "roomID", roomID, "reporterID", reporterID, "reportedUserID", reportedUserID)
	s.publish(pubsub.EventPlayerReported, event)
	return complaint, nil
}

func usernames(users map[string]*model.User) map[string]string {
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Username
	}
	return names
}
