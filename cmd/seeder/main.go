package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/matchday/internal/database"
	"github.com/mauv0809/matchday/internal/metrics"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
)

type demoUser struct {
	telegramID  int64
	username    string
	photoURL    string
	rating      int
	gamesPlayed int
	gamesWon    int
}

var demoUsers = []demoUser{
	{1, "Alex", "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=150", 2500, 120, 45},
	{2, "Maria", "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150", 2300, 100, 40},
	{3, "John", "https://images.unsplash.com/photo-1599566150163-29194dcaad36?w=150", 2100, 90, 35},
	{4, "Sarah", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150", 2000, 80, 30},
	{5, "Mike", "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150", 1900, 70, 25},
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	db, teardown, err := database.InitDB(
		getenv("DB_NAME", "matchday.db"),
		os.Getenv("TURSO_PRIMARY_URL"),
		os.Getenv("TURSO_AUTH_TOKEN"),
		getenv("MIGRATIONS_DIR", "./migrations"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	players := player.New(db)
	ids := make(map[string]string, len(demoUsers))
	for _, d := range demoUsers {
		u, created, err := players.FindOrCreateByTelegramID(ctx, d.telegramID, d.username, d.photoURL)
		if err != nil {
			log.Fatalf("Failed to insert demo user %s: %s", d.username, err)
		}
		ids[d.username] = u.ID
		if !created {
			continue
		}
		u.Rating, u.GamesPlayed, u.GamesWon = d.rating, d.gamesPlayed, d.gamesWon
		if err := player.SaveStats(ctx, db, u); err != nil {
			log.Fatalf("Failed to set stats for %s: %s", d.username, err)
		}
	}
	log.Info("Ensured demo users exist.", "count", len(ids))

	// Events of seeded rooms are not worth publishing.
	rooms := room.New(db, pubsub.NewMock(), metrics.NewMock())
	active, err := rooms.ActiveRooms(ctx, ids["Alex"])
	if err != nil {
		log.Fatalf("Failed to check existing rooms: %s", err)
	}
	if len(active) > 0 {
		log.Info("Demo rooms already present, skipping")
		return
	}

	seed := []struct {
		params  room.CreateParams
		creator string
		members []string
	}{
		{room.CreateParams{Name: "Champions League", MaxPlayers: 16, Location: "Madrid", TimeRange: "2-5 min"}, "Alex", []string{"Maria", "John", "Sarah"}},
		{room.CreateParams{Name: "Premier League", MaxPlayers: 16, Location: "London", TimeRange: "5-10 min"}, "Mike", nil},
	}
	for _, s := range seed {
		rm, err := rooms.CreateRoom(ctx, ids[s.creator], s.params)
		if err != nil {
			log.Fatalf("Failed to create room %s: %s", s.params.Name, err)
		}
		for _, m := range s.members {
			if _, err := rooms.JoinRoom(ctx, rm.ID, ids[m]); err != nil {
				log.Fatalf("Failed to add %s to %s: %s", m, rm.Name, err)
			}
		}
		log.Info("Seeded room", "name", rm.Name, "players", len(s.members)+1)
	}
	log.Info("Database seeded")
}
