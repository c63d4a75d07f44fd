package http

import (
	"database/sql"
	"net/http"

	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/config"
	"github.com/mauv0809/matchday/internal/http/handlers"
	"github.com/mauv0809/matchday/internal/location"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
	"github.com/mauv0809/matchday/internal/scheduler"
)

func NewServer(db *sql.DB, players player.Store, rooms room.Controller, locations *location.Directory, issuer *auth.Issuer, notifier notifier.Notifier, pubsub pubsub.PubSubClient, expirer *scheduler.Expirer, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		DB:             db,
		Players:        players,
		Rooms:          rooms,
		Locations:      locations,
		Issuer:         issuer,
		Notifier:       notifier,
		Expirer:        expirer,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	public := func(h http.Handler) http.Handler {
		return Chain(h, recoverMiddleware, paramsMiddleware)
	}
	authed := func(h http.Handler) http.Handler {
		return Chain(h, recoverMiddleware, paramsMiddleware, auth.RequireUser(s.Issuer))
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", public(handlers.HealthCheckHandler(s.DB)))

	s.Router.Handle("POST /api/auth/token", public(handlers.TokenHandler(s.Players, s.Issuer, s.Cfg.Auth.ExchangeSecret)))
	s.Router.Handle("GET /api/locations", public(handlers.LocationsHandler(s.Locations)))
	s.Router.Handle("GET /api/locations/search", public(handlers.SearchLocationsHandler(s.Locations)))

	s.Router.Handle("GET /api/users/me", authed(handlers.MeHandler(s.Players)))
	s.Router.Handle("GET /api/users/me/history", authed(handlers.HistoryHandler(s.Players)))
	s.Router.Handle("GET /api/users/{id}", authed(handlers.UserHandler(s.Players)))
	s.Router.Handle("GET /api/users/{id}/history", authed(handlers.HistoryHandler(s.Players)))
	s.Router.Handle("POST /api/users/theme-preference", authed(handlers.ThemeHandler(s.Players)))
	s.Router.Handle("GET /api/leaderboard", authed(handlers.LeaderboardHandler(s.Players)))
	s.Router.Handle("GET /api/user-active-rooms", authed(handlers.ActiveRoomsHandler(s.Rooms, s.Players)))

	s.Router.Handle("GET /api/game-rooms", authed(handlers.ListRoomsHandler(s.Rooms, s.Players)))
	s.Router.Handle("POST /api/game-rooms", authed(handlers.CreateRoomHandler(s.Rooms, s.Players)))
	s.Router.Handle("GET /api/game-rooms/{id}", authed(handlers.GetRoomHandler(s.Rooms, s.Players)))
	s.Router.Handle("DELETE /api/game-rooms/{id}", authed(handlers.DeleteRoomHandler(s.Rooms)))
	s.Router.Handle("POST /api/game-rooms/{id}/join", authed(handlers.JoinRoomHandler(s.Rooms, s.Players)))
	s.Router.Handle("POST /api/game-rooms/{id}/leave", authed(handlers.LeaveRoomHandler(s.Rooms, s.Players)))
	s.Router.Handle("POST /api/game-rooms/{id}/start-team-selection", authed(handlers.TransitionHandler(s.Players, s.Rooms.StartTeamSelection)))
	s.Router.Handle("POST /api/game-rooms/{id}/start-game", authed(handlers.TransitionHandler(s.Players, s.Rooms.StartGame)))
	s.Router.Handle("POST /api/game-rooms/{id}/end-game", authed(handlers.TransitionHandler(s.Players, s.Rooms.EndGame)))
	s.Router.Handle("POST /api/game-rooms/{id}/submit-score", authed(handlers.SubmitScoreHandler(s.Rooms, s.Players)))
	s.Router.Handle("POST /api/game-rooms/{id}/report-player", authed(handlers.ReportPlayerHandler(s.Rooms)))

	s.Router.Handle("POST /pubsub/room-completed", public(handlers.RoomCompletedHandler(s.Notifier, s.pubsub)))
	s.Router.Handle("POST /pubsub/score-mismatch", public(handlers.ScoreMismatchHandler(s.Notifier, s.pubsub)))
	s.Router.Handle("POST /pubsub/player-reported", public(handlers.PlayerReportedHandler(s.Notifier, s.pubsub)))
	s.Router.Handle("POST /tasks/expire-submissions", public(handlers.ExpireSubmissionsHandler(s.Expirer)))

	if s.Cfg.Slack.SigningSecret != "" {
		slackCommand := func(h http.Handler) http.Handler {
			return Chain(h, recoverMiddleware, paramsMiddleware, slackVerifier(s.Cfg.Slack.SigningSecret))
		}
		s.Router.Handle("POST /slack/command/leaderboard", slackCommand(handlers.LeaderboardCommandHandler(s.Players, s.Notifier)))
		s.Router.Handle("POST /slack/command/player-stats", slackCommand(handlers.PlayerStatsCommandHandler(s.Players, s.Notifier)))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
