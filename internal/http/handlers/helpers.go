package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/auth"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/room"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error       string     `json:"error"`
	ActiveRooms []roomView `json:"activeRooms,omitempty"`
}

// statusFor maps controller and store errors to HTTP status codes.
func statusFor(err error) int {
	switch room.Kind(err) {
	case room.KindValidation:
		return http.StatusBadRequest
	case room.KindNotFound:
		return http.StatusNotFound
	case room.KindForbidden:
		return http.StatusForbidden
	case room.KindConflict:
		return http.StatusConflict
	}
	if errors.Is(err, player.ErrInvalidTheme) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError reports err to the client. Internal errors are logged and
// replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	log.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		log.Warn("Invalid JSON body", "path", r.URL.Path, "error", err)
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// callerID returns the authenticated user; RequireUser guarantees it is set.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func intQuery(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

// pageParams reads page and per_page, as the mini-app sends them.
func pageParams(r *http.Request) (int, int) {
	return intQuery(r, "page", 1), intQuery(r, "per_page", 10)
}
