package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/room"
)

type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

// decodePush unwraps a Pub/Sub push request into dst. It writes the error
// response itself and reports whether the handler should continue.
func decodePush(w http.ResponseWriter, r *http.Request, client pubsub.PubSubClient, dst any) bool {
	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var envelope pushEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return false
	}
	if err := client.ProcessMessage(rawData, dst); err != nil {
		http.Error(w, "Invalid message payload", http.StatusBadRequest)
		return false
	}
	return true
}

// A failed notification answers 500 so Pub/Sub redelivers the message.
func ack(w http.ResponseWriter, err error) {
	if err != nil {
		http.Error(w, "Failed to send notification", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("OK"))
}

func RoomCompletedHandler(n notifier.Notifier, client pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event room.CompletedEvent
		if !decodePush(w, r, client, &event) {
			return
		}
		ack(w, n.SendMatchResult(event, IsDryRunFromContext(r)))
	}
}

func ScoreMismatchHandler(n notifier.Notifier, client pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event room.MismatchEvent
		if !decodePush(w, r, client, &event) {
			return
		}
		ack(w, n.SendScoreMismatch(event, IsDryRunFromContext(r)))
	}
}

func PlayerReportedHandler(n notifier.Notifier, client pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event room.ReportedEvent
		if !decodePush(w, r, client, &event) {
			return
		}
		ack(w, n.SendComplaint(event, IsDryRunFromContext(r)))
	}
}
