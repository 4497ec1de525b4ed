package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/store"
)

// StoreScheduler keeps pending notifications in the key-value store. Delivery
// is left to whoever calls Due.
type StoreScheduler struct {
	store store.Store
	mu    sync.Mutex
}

// NewStoreScheduler persists under config.StoreKeyNotifications.
func NewStoreScheduler(s store.Store) *StoreScheduler {
	return &StoreScheduler{store: s}
}

func (s *StoreScheduler) load(ctx context.Context) ([]Notification, error) {
	var pending []Notification
	if _, err := s.store.Get(ctx, config.StoreKeyNotifications, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *StoreScheduler) save(ctx context.Context, pending []Notification) error {
	slices.SortStableFunc(pending, func(a, b Notification) int {
		return a.TriggerAt.Compare(b.TriggerAt)
	})
	return s.store.Set(ctx, config.StoreKeyNotifications, pending)
}

// Schedule adds notifications; an ID already pending is replaced.
func (s *StoreScheduler) Schedule(ctx context.Context, notifications []Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}

	incoming := make(map[int64]struct{}, len(notifications))
	for _, n := range notifications {
		incoming[n.ID] = struct{}{}
	}
	pending = slices.DeleteFunc(pending, func(n Notification) bool {
		_, replaced := incoming[n.ID]
		return replaced
	})

	// Within one batch the last entry for an ID wins.
	seen := make(map[int64]struct{}, len(notifications))
	for i := len(notifications) - 1; i >= 0; i-- {
		n := notifications[i]
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		pending = append(pending, n)
	}

	if err := s.save(ctx, pending); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	return nil
}

// Pending returns the notifications ordered by trigger time.
func (s *StoreScheduler) Pending(ctx context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPending, err)
	}
	return pending, nil
}

// Cancel removes the given IDs. Unknown IDs are ignored.
func (s *StoreScheduler) Cancel(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCancel, err)
	}
	kept := slices.DeleteFunc(pending, func(n Notification) bool {
		return slices.Contains(ids, n.ID)
	})
	if err := s.save(ctx, kept); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCancel, err)
	}
	return nil
}

// Due removes and returns the notifications whose trigger time is not after now.
func (s *StoreScheduler) Due(ctx context.Context, now time.Time) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPending, err)
	}

	var due, rest []Notification
	for _, n := range pending {
		if n.TriggerAt.After(now) {
			rest = append(rest, n)
		} else {
			due = append(due, n)
		}
	}
	if len(due) == 0 {
		return nil, nil
	}
	if err := s.save(ctx, rest); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPending, err)
	}
	return due, nil
}
