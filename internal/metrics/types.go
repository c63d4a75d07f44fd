package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	RoomsCreated       prometheus.Counter
	RoomTransitions    *prometheus.CounterVec
	ScoreMismatches    prometheus.Counter
	RoomsCompleted     *prometheus.CounterVec
	Complaints         prometheus.Counter
	RatingDeltas       prometheus.Histogram
	OperationDuration  *prometheus.HistogramVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
