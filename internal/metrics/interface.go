package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRoomsCreated()
	IncRoomTransition(to string)
	IncScoreMismatch()
	IncRoomCompleted(reason string)
	IncComplaints()
	ObserveRatingDelta(delta float64)
	ObserveOperationDuration(operation string, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
