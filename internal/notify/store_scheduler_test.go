package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/notify"
	"github.com/tartampluch/hellodays/internal/store"
)

func at(h int) time.Time {
	return time.Date(2024, 6, 1, h, 0, 0, 0, time.UTC)
}

func TestStoreScheduler_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := notify.NewStoreScheduler(store.NewMemoryStore())

	require.NoError(t, s.Schedule(ctx, []notify.Notification{
		{ID: 1, Title: "first", TriggerAt: at(10)},
		{ID: 2, Title: "other", TriggerAt: at(8)},
	}))
	require.NoError(t, s.Schedule(ctx, []notify.Notification{
		{ID: 1, Title: "second", TriggerAt: at(9)},
		{ID: 1, Title: "third", TriggerAt: at(11)},
	}))

	pending, err := s.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "other", pending[0].Title, "ordered by trigger time")
	assert.Equal(t, "third", pending[1].Title)
}

func TestStoreScheduler_CancelAndDue(t *testing.T) {
	ctx := context.Background()
	s := notify.NewStoreScheduler(store.NewMemoryStore())

	require.NoError(t, s.Schedule(ctx, []notify.Notification{
		{ID: 1, TriggerAt: at(8)},
		{ID: 2, TriggerAt: at(9)},
		{ID: 3, TriggerAt: at(10)},
	}))
	require.NoError(t, s.Cancel(ctx, []int64{2, 99}))

	due, err := s.Due(ctx, at(9))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(1), due[0].ID)

	due, err = s.Due(ctx, at(9))
	require.NoError(t, err)
	assert.Empty(t, due, "due notifications are popped once")

	pending, _ := s.Pending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)
}

func TestStoreScheduler_Empty(t *testing.T) {
	s := notify.NewStoreScheduler(store.NewMemoryStore())

	pending, err := s.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)

	due, err := s.Due(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}
