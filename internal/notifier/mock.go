package notifier

import (
	"sync"

	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/room"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchResultFunc   func(event room.CompletedEvent, dryRun bool) error
	SendScoreMismatchFunc func(event room.MismatchEvent, dryRun bool) error
	SendComplaintFunc     func(event room.ReportedEvent, dryRun bool) error

	FormatLeaderboardResponseFunc    func(users []player.RankedUser) (any, error)
	FormatPlayerStatsResponseFunc    func(user *model.User, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendMatchResultCalls   []room.CompletedEvent
	SendScoreMismatchCalls []room.MismatchEvent
	SendComplaintCalls     []room.ReportedEvent

	LastLeaderboard    []player.RankedUser
	LastPlayerStats    *model.User
	LastPlayerNotFound string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendScoreMismatchCalls = nil
	m.SendComplaintCalls = nil
}

func (m *Mock) SendMatchResult(event room.CompletedEvent, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, event)
	m.mu.Unlock()
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) SendScoreMismatch(event room.MismatchEvent, dryRun bool) error {
	m.mu.Lock()
	m.SendScoreMismatchCalls = append(m.SendScoreMismatchCalls, event)
	m.mu.Unlock()
	if m.SendScoreMismatchFunc != nil {
		return m.SendScoreMismatchFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) SendComplaint(event room.ReportedEvent, dryRun bool) error {
	m.mu.Lock()
	m.SendComplaintCalls = append(m.SendComplaintCalls, event)
	m.mu.Unlock()
	if m.SendComplaintFunc != nil {
		return m.SendComplaintFunc(event, dryRun)
	}
	return nil
}

// MatchResults returns a copy of the recorded SendMatchResult events.
func (m *Mock) MatchResults() []room.CompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]room.CompletedEvent(nil), m.SendMatchResultCalls...)
}

// Complaints returns a copy of the recorded SendComplaint events.
func (m *Mock) Complaints() []room.ReportedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]room.ReportedEvent(nil), m.SendComplaintCalls...)
}

func (m *Mock) FormatLeaderboardResponse(users []player.RankedUser) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLeaderboard = users
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(users)
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(user *model.User, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerStats = user
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(user, query)
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerNotFound = query
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return "formatted_player_not_found", nil
}
