package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
)

// ExchangeSecretHeader carries the secret shared with the Telegram bot
// front end, which vouches for the identity it forwards.
const ExchangeSecretHeader = "X-Exchange-Secret"

type tokenRequest struct {
	TelegramID int64  `json:"telegramId"`
	Username   string `json:"username"`
	PhotoURL   string `json:"photoUrl"`
}

type tokenResponse struct {
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
	Created bool        `json:"created"`
}

// TokenHandler registers the Telegram user on first sight and hands out a
// bearer token for the rest of the API.
func TokenHandler(players player.Store, issuer *auth.Issuer, exchangeSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if exchangeSecret == "" {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "token exchange is disabled"})
			return
		}
		given := r.Header.Get(ExchangeSecretHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(exchangeSecret)) != 1 {
			log.Warn("Rejected token exchange", "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid exchange secret"})
			return
		}
		var req tokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.TelegramID == 0 || req.Username == "" {
			badRequest(w, "telegramId and username are required")
			return
		}
		user, created, err := players.FindOrCreateByTelegramID(r.Context(), req.TelegramID, req.Username, req.PhotoURL)
		if err != nil {
			writeError(w, r, err)
			return
		}
		token, err := issuer.GenerateToken(user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if created {
			log.Info("Registered new player", "userID", user.ID, "username", user.Username)
		}
		writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user, Created: created})
	}
}
