package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/scheduler"
)

type expireResponse struct {
	Expired []string `json:"expired"`
}

// ExpireSubmissionsHandler runs one expiry sweep on demand, for external
// schedulers such as Cloud Scheduler.
func ExpireSubmissionsHandler(expirer *scheduler.Expirer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !expirer.Enabled() {
			log.Info("Score submission expiry is disabled, nothing to do")
			writeJSON(w, http.StatusOK, expireResponse{Expired: []string{}})
			return
		}
		expired, err := expirer.Run(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if expired == nil {
			expired = []string{}
		}
		writeJSON(w, http.StatusOK, expireResponse{Expired: expired})
	}
}
