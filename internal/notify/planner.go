package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
)

// Planner turns contacts into one-shot notifications and keeps the scheduler
// in sync with them.
type Planner struct {
	Scheduler Scheduler
	Messages  *Messages
	Clock     engine.Clock
}

// NewPlanner wires a planner with the real clock.
func NewPlanner(s Scheduler, m *Messages) *Planner {
	return &Planner{Scheduler: s, Messages: m, Clock: engine.RealClock{}}
}

// TriggerAt returns the first instant not before now at which an event on
// md fires at the reminder time of day. The instant is in now's location.
func TriggerAt(md model.MonthDay, settings model.AppSettings, now time.Time) (time.Time, error) {
	h, m, s, err := settings.ReminderClock()
	if err != nil {
		return time.Time{}, err
	}
	at := time.Date(now.Year(), md.Month, md.Day, h, m, s, 0, now.Location())
	if at.Before(now) {
		at = time.Date(now.Year()+1, md.Month, md.Day, h, m, s, 0, now.Location())
	}
	return at, nil
}

// Plan builds the notifications of c: one for the birthday and one per name
// day. Contacts with reminders disabled yield none.
func (p *Planner) Plan(c model.Contact, settings model.AppSettings) ([]Notification, error) {
	if !c.ReminderEnabled {
		return nil, nil
	}
	now := p.Clock.Now()

	var out []Notification
	add := func(role, title, body string, d model.CalendarDate) error {
		at, err := TriggerAt(d.MonthDay(), settings, now)
		if err != nil {
			return err
		}
		out = append(out, Notification{
			ID:        DeriveID(c.ID, role),
			ContactID: c.ID,
			Key:       Key(c.ID, role),
			Title:     title,
			Body:      body,
			TriggerAt: at,
		})
		return nil
	}

	if c.Birthday != nil {
		if err := add(config.RoleBirthday, p.Messages.BirthdayTitle(), p.Messages.BirthdayBody(c.FirstName), *c.Birthday); err != nil {
			return nil, err
		}
	}
	for i, nd := range c.NameDays {
		if err := add(NameDayRole(i), p.Messages.NameDayTitle(), p.Messages.NameDayBody(c.FirstName), nd.Date); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ScheduleReminders plans and schedules c's notifications.
func (p *Planner) ScheduleReminders(ctx context.Context, c model.Contact, settings model.AppSettings) error {
	notifications, err := p.Plan(c, settings)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	if len(notifications) == 0 {
		return nil
	}
	if err := p.Scheduler.Schedule(ctx, notifications); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	slog.Debug(config.MsgScheduled,
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyContactID, c.ID,
		config.LogKeyCount, len(notifications),
	)
	return nil
}

// CancelReminders cancels every pending notification of contactID. Entries
// without a companion ContactID are matched on their key prefix.
func (p *Planner) CancelReminders(ctx context.Context, contactID int) error {
	pending, err := p.Scheduler.Pending(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCancel, err)
	}

	var ids []int64
	for _, n := range pending {
		if belongsTo(n, contactID) {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := p.Scheduler.Cancel(ctx, ids); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCancel, err)
	}
	slog.Debug(config.MsgCancelled,
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyContactID, contactID,
		config.LogKeyCount, len(ids),
	)
	return nil
}

// CancelAll cancels everything pending and returns what was cancelled.
func (p *Planner) CancelAll(ctx context.Context) ([]Notification, error) {
	pending, err := p.Scheduler.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCancel, err)
	}
	if len(pending) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(pending))
	for _, n := range pending {
		ids = append(ids, n.ID)
	}
	if err := p.Scheduler.Cancel(ctx, ids); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCancel, err)
	}
	return pending, nil
}

func belongsTo(n Notification, contactID int) bool {
	if n.ContactID != 0 {
		return n.ContactID == contactID
	}
	id, ok := ContactIDFromKey(n.Key)
	return ok && id == contactID
}
