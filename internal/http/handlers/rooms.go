package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/room"
)

// writeRoomError is writeError that also lists the caller's active rooms
// when that is why the request failed.
func writeRoomError(w http.ResponseWriter, r *http.Request, players player.Store, err error) {
	var active *room.ActiveRoomsError
	if errors.As(err, &active) {
		views, renderErr := renderRooms(r.Context(), players, active.Rooms)
		if renderErr == nil {
			log.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), ActiveRooms: views})
			return
		}
		log.Error("Failed to render active rooms", "error", renderErr)
	}
	writeError(w, r, err)
}

func respondRoom(w http.ResponseWriter, r *http.Request, players player.Store, status int, rm *model.Room) {
	view, err := renderRoom(r.Context(), players, rm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

func ListRoomsHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := room.ListFilter{
			Name:       q.Get("name"),
			Location:   q.Get("location"),
			TimeRanges: room.ParseTimeRanges(q.Get("timeRange")),
		}
		list, err := rooms.ListRooms(r.Context(), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		views, err := renderRooms(r.Context(), players, list)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

type createRoomRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	Location   string `json:"location"`
	TimeRange  string `json:"timeRange"`
}

func CreateRoomHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		created, err := rooms.CreateRoom(r.Context(), callerID(r), room.CreateParams(req))
		if err != nil {
			writeRoomError(w, r, players, err)
			return
		}
		respondRoom(w, r, players, http.StatusCreated, created)
	}
}

func GetRoomHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := rooms.GetRoom(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondRoom(w, r, players, http.StatusOK, rm)
	}
}

func DeleteRoomHandler(rooms room.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rooms.DeleteRoom(r.Context(), r.PathValue("id"), callerID(r)); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "room deleted"})
	}
}

func JoinRoomHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rooms.JoinRoom(r.Context(), r.PathValue("id"), callerID(r))
		if err != nil {
			writeRoomError(w, r, players, err)
			return
		}
		view, err := renderRoom(r.Context(), players, res.Room)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, joinResponse{Room: view, IsFull: res.Full})
	}
}

func LeaveRoomHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rooms.LeaveRoom(r.Context(), r.PathValue("id"), callerID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := leaveResponse{Deleted: res.Deleted, NewCreatorID: res.NewCreatorID}
		if !res.Deleted {
			if resp.Room, err = renderRoom(r.Context(), players, res.Room); err != nil {
				writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type transitionFunc func(ctx context.Context, roomID, callerID string) (*model.Room, error)

// TransitionHandler serves the creator and captain driven status changes:
// start team selection, start game and end game.
func TransitionHandler(players player.Store, transition transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := transition(r.Context(), r.PathValue("id"), callerID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondRoom(w, r, players, http.StatusOK, rm)
	}
}

type submitScoreRequest struct {
	Score string `json:"score"`
}

func SubmitScoreHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitScoreRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := rooms.SubmitScore(r.Context(), r.PathValue("id"), callerID(r), req.Score)
		if err != nil {
			writeError(w, r, err)
			return
		}
		view, err := renderRoom(r.Context(), players, res.Room)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, submitResponse{
			Room:      view,
			Outcome:   res.Outcome,
			Ratings:   res.Ratings,
			Penalties: penaltyViews(res.Penalties),
		})
	}
}

type reportPlayerRequest struct {
	ReportedUserID string `json:"reportedUserId"`
	Reason         string `json:"reason"`
}

func ReportPlayerHandler(rooms room.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportPlayerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		complaint, err := rooms.ReportPlayer(r.Context(), r.PathValue("id"), callerID(r), req.ReportedUserID, req.Reason)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, complaint)
	}
}

type activeRoomsResponse struct {
	User        *model.User `json:"user"`
	ActiveRooms []roomView  `json:"activeRooms"`
}

func ActiveRoomsHandler(rooms room.Controller, players player.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := players.Get(r.Context(), callerID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		active, err := rooms.ActiveRooms(r.Context(), user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		views, err := renderRooms(r.Context(), players, active)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, activeRoomsResponse{User: user, ActiveRooms: views})
	}
}
