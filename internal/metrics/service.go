package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_rooms_created_total",
			Help: "The total number of game rooms created.",
		}),
		RoomTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_room_transitions_total",
			Help: "Room status transitions, by target status.",
		}, []string{"to"}),
		ScoreMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_score_mismatches_total",
			Help: "The total number of disagreeing captain score submissions.",
		}),
		RoomsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_rooms_completed_total",
			Help: "Completed rooms, by how the final score was reached.",
		}, []string{"reason"}),
		Complaints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_complaints_total",
			Help: "The total number of player reports filed.",
		}),
		RatingDeltas: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchday_rating_delta_points",
			Help:    "Rating changes applied by the rating engine.",
			Buckets: []float64{-150, -75, -50, -25, -10, 0, 10, 25, 50, 75, 150},
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matchday_room_operation_duration_seconds",
			Help:    "The duration of room operations, including lock wait.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchday_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RoomsCreated,
		s.RoomTransitions,
		s.ScoreMismatches,
		s.RoomsCompleted,
		s.Complaints,
		s.RatingDeltas,
		s.OperationDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRoomsCreated() {
	s.RoomsCreated.Inc()
}

func (s *Service) IncRoomTransition(to string) {
	s.RoomTransitions.WithLabelValues(to).Inc()
}

func (s *Service) IncScoreMismatch() {
	s.ScoreMismatches.Inc()
}

func (s *Service) IncRoomCompleted(reason string) {
	s.RoomsCompleted.WithLabelValues(reason).Inc()
}

func (s *Service) IncComplaints() {
	s.Complaints.Inc()
}

func (s *Service) ObserveRatingDelta(delta float64) {
	s.RatingDeltas.Observe(delta)
}

func (s *Service) ObserveOperationDuration(operation string, seconds float64) {
	s.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
