package locker

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before the context ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker provides mutual exclusion keyed by an arbitrary string.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// RoomKey is the lock key guarding a room's state.
func RoomKey(roomID string) string {
	return "room:" + roomID
}

// UserKey is the lock key guarding a user's active-room membership.
func UserKey(userID string) string {
	return "user:" + userID
}
