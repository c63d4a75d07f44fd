package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventRoomCompleted  EventType = "room-completed"
	EventScoreMismatch  EventType = "score-mismatch"
	EventPlayerReported EventType = "player-reported"
)
