package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/slack-go/slack"
)

// slashLeaderboardSize is how many players /leaderboard shows.
const slashLeaderboardSize = 10

// respondWithSlackMsg writes a formatted Slack message as the slash command response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func LeaderboardCommandHandler(players player.Store, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := players.Leaderboard(r.Context(), 1, slashLeaderboardSize)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}

		msg, err := n.FormatLeaderboardResponse(board.Users)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func PlayerStatsCommandHandler(players player.Store, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(cmd.Text)
		if query == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", query, "requested_by", cmd.UserName)
		var msg any
		user, err := players.FindByUsername(r.Context(), query)
		switch {
		case errors.Is(err, player.ErrNotFound):
			msg, err = n.FormatPlayerNotFoundResponse(query)
		case err != nil:
			http.Error(w, "Failed to look up player", http.StatusInternalServerError)
			log.Error("Failed to look up player", "player", query, "error", err)
			return
		default:
			msg, err = n.FormatPlayerStatsResponse(user, query)
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
