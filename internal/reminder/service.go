// Package reminder ties contacts, the name-day catalog and notification
// scheduling together.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/nameday"
	"github.com/tartampluch/hellodays/internal/notify"
	"github.com/tartampluch/hellodays/internal/store"
)

// Service is the application layer used by the CLI, the HTTP server and the
// worker.
type Service struct {
	Contacts *store.ContactRepository
	Settings *store.SettingsService
	Planner  *notify.Planner
	Catalog  *nameday.Catalog
	Messages *notify.Messages
	Clock    engine.Clock

	// Tradition selects catalog entries for suggestions and general name days.
	Tradition string
	// IncludeGeneral adds catalog name days to month views and the feed.
	IncludeGeneral bool
}

func (s *Service) today() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Save adds (ID zero) or updates c, then replaces its scheduled
// notifications. Scheduling failures are logged; the save still succeeds.
func (s *Service) Save(ctx context.Context, c model.Contact) (model.Contact, error) {
	var (
		saved model.Contact
		err   error
	)
	if c.ID == 0 {
		saved, err = s.Contacts.Add(ctx, c)
	} else {
		saved, err = s.Contacts.Update(ctx, c)
	}
	if err != nil {
		return model.Contact{}, err
	}

	log := slog.With(
		config.LogKeyComponent, config.CompReminder,
		config.LogKeyContactID, saved.ID,
	)
	log.Info(config.MsgContactSaved)

	if err := s.Planner.CancelReminders(ctx, saved.ID); err != nil {
		log.Warn(config.MsgCancelFailed, config.LogKeyError, err)
	}
	if err := s.Planner.ScheduleReminders(ctx, saved, s.Settings.Current(ctx)); err != nil {
		log.Error(config.MsgScheduleFailed, config.LogKeyError, err)
	}
	return saved, nil
}

// Delete cancels the contact's notifications and removes it.
func (s *Service) Delete(ctx context.Context, id int) error {
	log := slog.With(
		config.LogKeyComponent, config.CompReminder,
		config.LogKeyContactID, id,
	)
	if err := s.Planner.CancelReminders(ctx, id); err != nil {
		log.Warn(config.MsgCancelFailed, config.LogKeyError, err)
	}
	if err := s.Contacts.Delete(ctx, id); err != nil {
		return err
	}
	log.Info(config.MsgContactDeleted)
	return nil
}

// RescheduleAll drops every pending notification and plans all contacts
// again with the current settings. It returns the number of contacts whose
// reminders were scheduled.
func (s *Service) RescheduleAll(ctx context.Context) (int, error) {
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.Planner.CancelAll(ctx); err != nil {
		return 0, err
	}

	settings := s.Settings.Current(ctx)
	scheduled := 0
	for _, c := range contacts {
		if err := s.Planner.ScheduleReminders(ctx, c, settings); err != nil {
			slog.Error(config.MsgScheduleFailed,
				config.LogKeyComponent, config.CompReminder,
				config.LogKeyContactID, c.ID,
				config.LogKeyError, err,
			)
			continue
		}
		if c.ReminderEnabled && c.HasEvents() {
			scheduled++
		}
	}
	slog.Info(config.MsgRescheduled,
		config.LogKeyComponent, config.CompReminder,
		config.LogKeyCount, scheduled,
	)
	return scheduled, nil
}

// Upcoming groups every contact by its next occurrence.
func (s *Service) Upcoming(ctx context.Context) ([]engine.ReminderGroup, error) {
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Rank(contacts, s.today()), nil
}

// Events merges personal events with the configured catalog name days.
func (s *Service) Events(ctx context.Context) ([]engine.CalendarEvent, error) {
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	var general []nameday.FlatNameDay
	if s.IncludeGeneral && s.Catalog != nil {
		tradition := s.tradition()
		for _, nd := range s.Catalog.AllNameDays() {
			if nd.Tradition == tradition {
				general = append(general, nd)
			}
		}
	}
	m := engine.Merger{}
	if s.Messages != nil {
		m.FormatTitle = s.Messages.EventTitle
	}
	return m.Merge(contacts, general), nil
}

// Month builds the calendar grid of year/month.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (engine.MonthGrid, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return engine.MonthGrid{}, err
	}
	return engine.BuildMonth(engine.IndexByDay(events), year, month, s.today()), nil
}

// Dashboard summarizes today and the coming week.
func (s *Service) Dashboard(ctx context.Context) (engine.Digest, error) {
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return engine.Digest{}, err
	}
	now := s.today()
	var names []string
	if s.Catalog != nil {
		names = s.Catalog.NamesOn(model.DateOf(now).MonthDay(), s.tradition())
	}
	return engine.Dashboard(contacts, names, now), nil
}

// Feed renders the iCalendar feed.
func (s *Service) Feed(ctx context.Context) ([]byte, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return engine.BuildICS(events, s.Settings.Current(ctx), s.today())
}

// SuggestNames returns catalog names starting with partial.
func (s *Service) SuggestNames(partial string) []string {
	if s.Catalog == nil {
		return nil
	}
	return s.Catalog.AutocompleteSuggestions(partial, s.tradition())
}

// ApplyNameSuggestion sets c's first name and adds every catalog date of
// that name as a name day, skipping dates already present. It returns the
// number of dates added.
func (s *Service) ApplyNameSuggestion(c *model.Contact, name string) int {
	c.FirstName = name
	if s.Catalog == nil {
		return 0
	}
	added := 0
	for _, d := range s.Catalog.FindDatesForName(name, s.tradition()) {
		if c.AddNameDay(d, "") {
			added++
		}
	}
	slog.Debug(config.MsgSuggestionApplied,
		config.LogKeyComponent, config.CompReminder,
		config.LogKeyName, name,
		config.LogKeyCount, added,
	)
	return added
}

func (s *Service) tradition() string {
	if s.Tradition == "" {
		return config.DefaultTradition
	}
	return s.Tradition
}
