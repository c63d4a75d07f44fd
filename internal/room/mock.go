package room

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/matchday/internal/model"
)

// MockController is a mock implementation of Controller for testing.
// Unset funcs return zero values. It is safe for concurrent use.
type MockController struct {
	mu sync.Mutex

	// Spies for method calls
	CreateRoomFunc             func(creatorID string, params CreateParams) (*model.Room, error)
	GetRoomFunc                func(roomID string) (*model.Room, error)
	ListRoomsFunc              func(filter ListFilter) ([]*model.Room, error)
	ActiveRoomsFunc            func(userID string) ([]*model.Room, error)
	JoinRoomFunc               func(roomID, userID string) (*JoinResult, error)
	LeaveRoomFunc              func(roomID, userID string) (*LeaveResult, error)
	DeleteRoomFunc             func(roomID, callerID string) error
	StartTeamSelectionFunc     func(roomID, callerID string) (*model.Room, error)
	StartGameFunc              func(roomID, callerID string) (*model.Room, error)
	EndGameFunc                func(roomID, callerID string) (*model.Room, error)
	SubmitScoreFunc            func(roomID, callerID, score string) (*SubmitResult, error)
	ReportPlayerFunc           func(roomID, reporterID, reportedUserID, reason string) (*model.Complaint, error)
	ExpireStaleSubmissionsFunc func(cutoff time.Time) ([]string, error)

	// Call records
	SubmitScoreCalls []struct {
		RoomID   string
		CallerID string
		Score    string
	}
	ExpireStaleSubmissionsCalls []time.Time
}

var _ Controller = (*MockController)(nil)

func NewMock() *MockController {
	return &MockController{}
}

func (m *MockController) CreateRoom(ctx context.Context, creatorID string, params CreateParams) (*model.Room, error) {
	if m.CreateRoomFunc != nil {
		return m.CreateRoomFunc(creatorID, params)
	}
	return nil, nil
}

func (m *MockController) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(roomID)
	}
	return nil, ErrRoomNotFound
}

func (m *MockController) ListRooms(ctx context.Context, filter ListFilter) ([]*model.Room, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(filter)
	}
	return nil, nil
}

func (m *MockController) ActiveRooms(ctx context.Context, userID string) ([]*model.Room, error) {
	if m.ActiveRoomsFunc != nil {
		return m.ActiveRoomsFunc(userID)
	}
	return nil, nil
}

func (m *MockController) JoinRoom(ctx context.Context, roomID, userID string) (*JoinResult, error) {
	if m.JoinRoomFunc != nil {
		return m.JoinRoomFunc(roomID, userID)
	}
	return nil, nil
}

func (m *MockController) LeaveRoom(ctx context.Context, roomID, userID string) (*LeaveResult, error) {
	if m.LeaveRoomFunc != nil {
		return m.LeaveRoomFunc(roomID, userID)
	}
	return nil, nil
}

func (m *MockController) DeleteRoom(ctx context.Context, roomID, callerID string) error {
	if m.DeleteRoomFunc != nil {
		return m.DeleteRoomFunc(roomID, callerID)
	}
	return nil
}

func (m *MockController) StartTeamSelection(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	if m.StartTeamSelectionFunc != nil {
		return m.StartTeamSelectionFunc(roomID, callerID)
	}
	return nil, nil
}

func (m *MockController) StartGame(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	if m.StartGameFunc != nil {
		return m.StartGameFunc(roomID, callerID)
	}
	return nil, nil
}

func (m *MockController) EndGame(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	if m.EndGameFunc != nil {
		return m.EndGameFunc(roomID, callerID)
	}
	return nil, nil
}

func (m *MockController) SubmitScore(ctx context.Context, roomID, callerID, score string) (*SubmitResult, error) {
	m.mu.Lock()
	m.SubmitScoreCalls = append(m.SubmitScoreCalls, struct {
		RoomID   string
		CallerID string
		Score    string
	}{roomID, callerID, score})
	m.mu.Unlock()
	if m.SubmitScoreFunc != nil {
		return m.SubmitScoreFunc(roomID, callerID, score)
	}
	return nil, nil
}

func (m *MockController) ReportPlayer(ctx context.Context, roomID, reporterID, reportedUserID, reason string) (*model.Complaint, error) {
	if m.ReportPlayerFunc != nil {
		return m.ReportPlayerFunc(roomID, reporterID, reportedUserID, reason)
	}
	return nil, nil
}

func (m *MockController) ExpireStaleSubmissions(ctx context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	m.ExpireStaleSubmissionsCalls = append(m.ExpireStaleSubmissionsCalls, cutoff)
	m.mu.Unlock()
	if m.ExpireStaleSubmissionsFunc != nil {
		return m.ExpireStaleSubmissionsFunc(cutoff)
	}
	return nil, nil
}

// ExpireCalls returns a copy of the recorded ExpireStaleSubmissions cutoffs.
func (m *MockController) ExpireCalls() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.ExpireStaleSubmissionsCalls...)
}
