package notify

import (
	"context"
	"time"
)

// Notification is a one-shot local notification. ContactID and Key are kept
// next to the opaque ID so that pending entries can be traced back to their
// contact.
type Notification struct {
	ID        int64     `json:"id"`
	ContactID int       `json:"contactId"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TriggerAt time.Time `json:"triggerAt"`
}

// Scheduler delivers notifications. Scheduling an ID that is already pending
// replaces it.
type Scheduler interface {
	Schedule(ctx context.Context, notifications []Notification) error
	Pending(ctx context.Context) ([]Notification, error)
	Cancel(ctx context.Context, ids []int64) error
}
