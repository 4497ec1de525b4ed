package engine

import (
	"math"
	"slices"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// GroupName is one of the fixed relative-time buckets.
type GroupName string

const (
	GroupToday     GroupName = config.GroupToday
	GroupThisWeek  GroupName = config.GroupThisWeek
	GroupNextWeek  GroupName = config.GroupNextWeek
	GroupThisMonth GroupName = config.GroupThisMonth
	GroupNextMonth GroupName = config.GroupNextMonth
	GroupLater     GroupName = config.GroupLater
	GroupNone      GroupName = config.GroupNone
)

// GroupOrder is the order in which non-empty groups are emitted.
var GroupOrder = []GroupName{
	GroupToday,
	GroupThisWeek,
	GroupNextWeek,
	GroupThisMonth,
	GroupNextMonth,
	GroupLater,
	GroupNone,
}

// Reminder is a contact with its next occurrence, nil when it has no events.
type Reminder struct {
	Contact        model.Contact `json:"contact"`
	NextOccurrence *time.Time    `json:"nextOccurrence,omitempty"`
}

// ReminderGroup is a named bucket of reminders sorted by next occurrence.
type ReminderGroup struct {
	Name      GroupName  `json:"name"`
	Reminders []Reminder `json:"reminders"`
}

// Rank sorts contacts by next occurrence and buckets them relative to today.
// Contacts without events come last, in input order.
func Rank(contacts []model.Contact, today time.Time) []ReminderGroup {
	reminders := make([]Reminder, 0, len(contacts))
	for _, c := range contacts {
		r := Reminder{Contact: c}
		if next, ok := NextOccurrenceForContact(c, today); ok {
			r.NextOccurrence = &next
		}
		reminders = append(reminders, r)
	}

	slices.SortStableFunc(reminders, func(a, b Reminder) int {
		switch {
		case a.NextOccurrence == nil && b.NextOccurrence == nil:
			return 0
		case a.NextOccurrence == nil:
			return 1
		case b.NextOccurrence == nil:
			return -1
		default:
			return a.NextOccurrence.Compare(*b.NextOccurrence)
		}
	})

	b := newBoundaries(today)
	buckets := make(map[GroupName][]Reminder, len(GroupOrder))
	for _, r := range reminders {
		name := b.classify(r.NextOccurrence)
		buckets[name] = append(buckets[name], r)
	}

	var groups []ReminderGroup
	for _, name := range GroupOrder {
		if rs := buckets[name]; len(rs) > 0 {
			groups = append(groups, ReminderGroup{Name: name, Reminders: rs})
		}
	}
	return groups
}

// boundaries holds the inclusive end of each window. Weeks end on Saturday.
type boundaries struct {
	today          time.Time
	endOfWeek      time.Time
	endOfNextWeek  time.Time
	endOfMonth     time.Time
	endOfNextMonth time.Time
}

func newBoundaries(now time.Time) boundaries {
	today := Midnight(now)
	y, m, d := today.Date()
	loc := today.Location()

	endOfWeek := time.Date(y, m, d+int(time.Saturday-today.Weekday()), 0, 0, 0, 0, loc)
	return boundaries{
		today:          today,
		endOfWeek:      endOfWeek,
		endOfNextWeek:  endOfWeek.AddDate(0, 0, 7),
		endOfMonth:     time.Date(y, m+1, 0, 0, 0, 0, 0, loc),
		endOfNextMonth: time.Date(y, m+2, 0, 0, 0, 0, 0, loc),
	}
}

func (b boundaries) classify(next *time.Time) GroupName {
	if next == nil {
		return GroupNone
	}
	event := Midnight(*next)
	if diffDays(b.today, event) == 0 {
		return GroupToday
	}
	switch {
	case !event.After(b.endOfWeek):
		return GroupThisWeek
	case !event.After(b.endOfNextWeek):
		return GroupNextWeek
	case !event.After(b.endOfMonth):
		return GroupThisMonth
	case !event.After(b.endOfNextMonth):
		return GroupNextMonth
	default:
		return GroupLater
	}
}

// diffDays rounds to whole days so that DST shifts do not matter.
func diffDays(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
