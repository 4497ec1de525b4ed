package engine

import (
	"fmt"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/nameday"
	"github.com/tartampluch/hellodays/internal/normalize"
)

// EventType distinguishes birthdays from name days.
type EventType string

const (
	EventBirthday EventType = "birthday"
	EventNameDay  EventType = "nameday"
)

// CalendarEvent is one dated entry of a view. Personal events (IsReminder)
// come from a contact; the others come from the name-day catalog.
type CalendarEvent struct {
	Title      string             `json:"title"`
	Type       EventType          `json:"type"`
	Date       model.CalendarDate `json:"date"`
	IsReminder bool               `json:"isReminder"`
	// ContactID is zero for catalog events.
	ContactID int `json:"contactId,omitempty"`
}

// TitleFunc renders an event title. personal is false for catalog entries.
type TitleFunc func(t EventType, name string, personal bool) string

// DefaultTitle renders titles without localization.
func DefaultTitle(t EventType, name string, personal bool) string {
	switch {
	case !personal:
		return fmt.Sprintf(config.FallbackEvtGeneral, name)
	case t == EventBirthday:
		return fmt.Sprintf(config.FallbackEvtBirthday, name)
	default:
		return fmt.Sprintf(config.FallbackEvtNameDay, name)
	}
}

// Merger combines personal events with catalog name days.
type Merger struct {
	// FormatTitle allows callers to inject localized titles. Nil means DefaultTitle.
	FormatTitle TitleFunc
}

type suppressionKey struct {
	name string
	day  model.MonthDay
}

// Merge emits every personal event (contact order, birthday before name days)
// followed by the catalog entries in catalog order. A catalog entry is dropped
// when a contact with the same normalized first name has a personal name day on
// the same month and day. Birthdays never suppress catalog entries.
func (m Merger) Merge(contacts []model.Contact, catalog []nameday.FlatNameDay) []CalendarEvent {
	title := m.FormatTitle
	if title == nil {
		title = DefaultTitle
	}

	events := make([]CalendarEvent, 0, len(contacts)+len(catalog))
	suppressed := make(map[suppressionKey]struct{})

	for _, c := range contacts {
		if c.Birthday != nil {
			events = append(events, CalendarEvent{
				Title:      title(EventBirthday, c.FirstName, true),
				Type:       EventBirthday,
				Date:       *c.Birthday,
				IsReminder: true,
				ContactID:  c.ID,
			})
		}
		name := normalize.Name(c.FirstName)
		for _, nd := range c.NameDays {
			events = append(events, CalendarEvent{
				Title:      title(EventNameDay, c.FirstName, true),
				Type:       EventNameDay,
				Date:       nd.Date,
				IsReminder: true,
				ContactID:  c.ID,
			})
			suppressed[suppressionKey{name: name, day: nd.Date.MonthDay()}] = struct{}{}
		}
	}

	for _, nd := range catalog {
		key := suppressionKey{name: normalize.Name(nd.Name), day: nd.Date.MonthDay()}
		if _, ok := suppressed[key]; ok {
			continue
		}
		events = append(events, CalendarEvent{
			Title: title(EventNameDay, nd.Name, false),
			Type:  EventNameDay,
			Date:  nd.Date,
		})
	}
	return events
}

// Merge uses a Merger with default titles.
func Merge(contacts []model.Contact, catalog []nameday.FlatNameDay) []CalendarEvent {
	return Merger{}.Merge(contacts, catalog)
}

// DayIndex groups events by month and day.
type DayIndex map[model.MonthDay][]CalendarEvent

// IndexByDay builds a DayIndex preserving the input order within each day.
func IndexByDay(events []CalendarEvent) DayIndex {
	idx := make(DayIndex)
	for _, e := range events {
		md := e.Date.MonthDay()
		idx[md] = append(idx[md], e)
	}
	return idx
}
