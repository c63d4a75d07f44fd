package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/matchday/internal/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirer_Run(t *testing.T) {
	rooms := room.NewMock()
	rooms.ExpireStaleSubmissionsFunc = func(cutoff time.Time) ([]string, error) {
		return []string{"room-1"}, nil
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expirer := NewExpirer(rooms, 24*time.Hour)
	expirer.now = func() time.Time { return now }

	ids, err := expirer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"room-1"}, ids)
	assert.Equal(t, []time.Time{now.Add(-24 * time.Hour)}, rooms.ExpireCalls())
}

func TestExpirer_Disabled(t *testing.T) {
	rooms := room.NewMock()
	expirer := NewExpirer(rooms, 0)

	ids, err := expirer.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, rooms.ExpireCalls())

	sched, err := New(expirer, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestExpirer_Error(t *testing.T) {
	rooms := room.NewMock()
	rooms.ExpireStaleSubmissionsFunc = func(time.Time) ([]string, error) {
		return nil, errors.New("db down")
	}
	_, err := NewExpirer(rooms, time.Hour).Run(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunsJob(t *testing.T) {
	rooms := room.NewMock()
	sched, err := New(NewExpirer(rooms, time.Hour), 20*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, sched)

	sched.Start()
	defer func() { require.NoError(t, sched.Shutdown()) }()

	assert.Eventually(t, func() bool {
		return len(rooms.ExpireCalls()) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}
