package handlers

import (
	"net/http"

	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
)

func MeHandler(players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := players.Get(r.Context(), callerID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func UserHandler(players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := players.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

type themeRequest struct {
	Theme model.Theme `json:"theme"`
}

func ThemeHandler(players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req themeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := players.SetTheme(r.Context(), callerID(r), req.Theme); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := players.Get(r.Context(), callerID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// HistoryHandler lists games of the user named in the path, or of the
// caller on /api/users/me/history.
func HistoryHandler(players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		if userID == "" {
			userID = callerID(r)
		}
		if _, err := players.Get(r.Context(), userID); err != nil {
			writeError(w, r, err)
			return
		}
		page, perPage := pageParams(r)
		history, err := players.History(r.Context(), userID, page, perPage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func LeaderboardHandler(players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, perPage := pageParams(r)
		board, err := players.Leaderboard(r.Context(), page, perPage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}
