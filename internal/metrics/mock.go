package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	roomsCreated     int
	transitions      map[string]int
	scoreMismatches  int
	completed        map[string]int
	complaints       int
	ratingDeltas     []float64
	operations       map[string]int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		transitions:  make(map[string]int),
		completed:    make(map[string]int),
		ratingDeltas: make([]float64, 0),
		operations:   make(map[string]int),
	}
}

func (m *Mock) IncRoomsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roomsCreated++
}

func (m *Mock) IncRoomTransition(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[to]++
}

func (m *Mock) IncScoreMismatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoreMismatches++
}

func (m *Mock) IncRoomCompleted(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[reason]++
}

func (m *Mock) IncComplaints() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complaints++
}

func (m *Mock) ObserveRatingDelta(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingDeltas = append(m.ratingDeltas, delta)
}

func (m *Mock) ObserveOperationDuration(operation string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[operation]++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RoomsCreated returns the number of times IncRoomsCreated was called.
func (m *Mock) RoomsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomsCreated
}

// Transitions returns how many transitions into status were recorded.
func (m *Mock) Transitions(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[status]
}

func (m *Mock) ScoreMismatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreMismatches
}

// Completed returns how many rooms completed for reason.
func (m *Mock) Completed(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed[reason]
}

func (m *Mock) Complaints() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.complaints
}

// RatingDeltas returns a copy of every observed rating delta.
func (m *Mock) RatingDeltas() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.ratingDeltas...)
}

// Operations returns how many durations were observed for operation.
func (m *Mock) Operations(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operations[operation]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
