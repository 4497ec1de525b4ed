package reminder_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/notify"
	"github.com/tartampluch/hellodays/internal/reminder"
)

// fakePublisher records every published feed.
type fakePublisher struct {
	mu    sync.Mutex
	feeds [][]byte
}

func (p *fakePublisher) Update(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feeds = append(p.feeds, data)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.feeds)
}

func (p *fakePublisher) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.feeds) == 0 {
		return ""
	}
	return string(p.feeds[len(p.feeds)-1])
}

func newWorker(t *testing.T, now time.Time) (*reminder.Worker, fixture, *fakePublisher) {
	t.Helper()
	f := newFixture(t, now, nil)
	pub := &fakePublisher{}
	w := reminder.NewWorker(f.svc, f.sched, pub)
	w.Clock = MockClock{CurrentTime: now}
	return w, f, pub
}

func TestWorker_RefreshPublishesFeed(t *testing.T) {
	ctx := context.Background()
	w, f, pub := newWorker(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	bday := cd(1990, time.May, 17)
	require.NoError(t, f.svc.Contacts.ReplaceAll(ctx, []model.Contact{
		{ID: 1, FirstName: "Anna", Birthday: &bday, ReminderEnabled: true},
	}))

	w.Refresh(ctx)

	require.Equal(t, 1, pub.count())
	assert.True(t, strings.HasPrefix(pub.last(), "BEGIN:VCALENDAR"))
	assert.Contains(t, pub.last(), "🎂 Anna")

	pending, _ := f.sched.Pending(ctx)
	assert.Len(t, pending, 1)
}

func TestWorker_RefreshSkipsCancelledContext(t *testing.T) {
	w, _, pub := newWorker(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Refresh(ctx)

	assert.Zero(t, pub.count())
}

func TestWorker_DispatchDeliversDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	w, f, _ := newWorker(t, now)

	require.NoError(t, f.sched.Schedule(ctx, []notify.Notification{
		{ID: 1, ContactID: 1, Body: "due", TriggerAt: now.Add(-time.Minute)},
		{ID: 2, ContactID: 1, Body: "exact", TriggerAt: now},
		{ID: 3, ContactID: 2, Body: "later", TriggerAt: now.Add(time.Hour)},
	}))

	var delivered []int64
	w.Deliver = func(n notify.Notification) { delivered = append(delivered, n.ID) }
	w.Dispatch(ctx)

	assert.Equal(t, []int64{1, 2}, delivered)

	pending, _ := f.sched.Pending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)

	// Popped entries are not delivered twice.
	delivered = nil
	w.Dispatch(ctx)
	assert.Empty(t, delivered)
}

func TestWorker_RefreshDeliversOverdueBeforeRescheduling(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	w, f, _ := newWorker(t, now)

	bday := cd(1990, time.May, 17)
	anna := model.Contact{ID: 1, FirstName: "Anna", Birthday: &bday, ReminderEnabled: true}
	require.NoError(t, f.svc.Contacts.ReplaceAll(ctx, []model.Contact{anna}))

	// Armed last year, fired half an hour ago while the process was down.
	overdue := notify.Notification{
		ID:        notify.DeriveID(1, config.RoleBirthday),
		ContactID: 1,
		Key:       notify.Key(1, config.RoleBirthday),
		Body:      "Anna",
		TriggerAt: time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.sched.Schedule(ctx, []notify.Notification{overdue}))

	var delivered []notify.Notification
	w.Deliver = func(n notify.Notification) { delivered = append(delivered, n) }
	w.Refresh(ctx)

	require.Len(t, delivered, 1)
	assert.Equal(t, overdue.ID, delivered[0].ID)

	pending, err := f.sched.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, time.Date(2025, 5, 17, 9, 0, 0, 0, time.UTC), pending[0].TriggerAt, "re-armed for next year")

	delivered = nil
	w.Dispatch(ctx)
	assert.Empty(t, delivered, "not delivered twice")
}

func TestWorker_RunRejectsBadSchedule(t *testing.T) {
	w, _, _ := newWorker(t, time.Now())
	w.DispatchSpec = "not a cron spec"

	err := w.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrCronSpec)
}

func TestWorker_RunRefreshesOnSettingsChange(t *testing.T) {
	w, f, pub := newWorker(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	bday := cd(1990, time.May, 17)
	require.NoError(t, f.svc.Contacts.ReplaceAll(context.Background(), []model.Contact{
		{ID: 1, FirstName: "Anna", Birthday: &bday, ReminderEnabled: true},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() >= 1 }, 2*time.Second, 10*time.Millisecond,
		"initial refresh")

	require.NoError(t, f.svc.Settings.Save(context.Background(), model.AppSettings{DefaultReminderTime: "18:30:00"}))

	require.Eventually(t, func() bool {
		return strings.Contains(pub.last(), "PT18H30M")
	}, 2*time.Second, 10*time.Millisecond, "settings save triggers a refresh")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
