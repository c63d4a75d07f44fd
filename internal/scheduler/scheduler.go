package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/mauv0809/matchday/internal/room"
)

// Expirer closes rooms whose captains never agreed on a score within ttl.
type Expirer struct {
	rooms room.Controller
	ttl   time.Duration
	now   func() time.Time
}

func NewExpirer(rooms room.Controller, ttl time.Duration) *Expirer {
	return &Expirer{rooms: rooms, ttl: ttl, now: time.Now}
}

// Enabled reports whether a submission TTL is configured.
func (e *Expirer) Enabled() bool {
	return e.ttl > 0
}

// Run expires every room that entered score submission more than ttl ago.
func (e *Expirer) Run(ctx context.Context) ([]string, error) {
	if !e.Enabled() {
		return nil, nil
	}
	cutoff := e.now().Add(-e.ttl)
	ids, err := e.rooms.ExpireStaleSubmissions(ctx, cutoff)
	if err != nil {
		return ids, err
	}
	if len(ids) > 0 {
		log.Info("Expired stale score submissions", "count", len(ids), "cutoff", cutoff)
	}
	return ids, nil
}

// Scheduler runs the Expirer periodically in-process.
type Scheduler struct {
	sched gocron.Scheduler
}

// New registers the expiry job every interval. It returns a nil Scheduler
// when expiry is disabled.
func New(expirer *Expirer, interval time.Duration) (*Scheduler, error) {
	if !expirer.Enabled() {
		log.Info("Score submission expiry disabled")
		return nil, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if _, err := expirer.Run(ctx); err != nil {
				log.Error("Score submission expiry failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register expiry job: %w", err)
	}
	log.Info("Scheduled score submission expiry", "interval", interval, "ttl", expirer.ttl)
	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
