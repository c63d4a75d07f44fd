package handlers

import (
	"net/http"

	"github.com/mauv0809/matchday/internal/location"
)

const locationSearchLimit = 10

type locationsResponse struct {
	Locations []string `json:"locations"`
}

func LocationsHandler(dir *location.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, locationsResponse{Locations: dir.All()})
	}
}

func SearchLocationsHandler(dir *location.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		writeJSON(w, http.StatusOK, locationsResponse{Locations: dir.Search(query, locationSearchLimit)})
	}
}
