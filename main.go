package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/config"
	"github.com/mauv0809/matchday/internal/database"
	server "github.com/mauv0809/matchday/internal/http"
	"github.com/mauv0809/matchday/internal/location"
	"github.com/mauv0809/matchday/internal/locker"
	"github.com/mauv0809/matchday/internal/metrics"
	"github.com/mauv0809/matchday/internal/notifier/slack"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
	"github.com/mauv0809/matchday/internal/scheduler"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	locations, err := location.Load(cfg.LocationsFile)
	if err != nil {
		log.Fatalf("Failed to load locations: %s", err)
	}

	ctx := context.Background()
	pubsubClient, pubsubTeardown, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubTeardown()

	var roomLocks locker.Locker = locker.NewLocal()
	if cfg.Redis.URL != "" {
		redisLocks, err := locker.NewRedisFromURL(ctx, cfg.Redis.URL, cfg.Redis.LockTTL)
		if err != nil {
			log.Fatalf("Failed to initialize room locks: %s", err)
		}
		defer redisLocks.Close()
		roomLocks = redisLocks
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	players := player.New(db)
	rooms := room.New(db, pubsubClient, metricsSvc,
		room.WithLocker(roomLocks),
		room.WithDefaultMaxPlayers(cfg.DefaultMaxPlayers),
	)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	expirer := scheduler.NewExpirer(rooms, cfg.Expiry.SubmissionTTL)
	sched, err := scheduler.New(expirer, cfg.Expiry.CheckInterval)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %s", err)
	}
	if sched != nil {
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error("Scheduler shutdown failed", "error", err)
			}
		}()
	}

	s := server.NewServer(
		db,
		players,
		rooms,
		locations,
		issuer,
		notifier,
		pubsubClient,
		expirer,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
