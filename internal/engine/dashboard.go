package engine

import (
	"slices"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// DigestEvent is a personal event at its next occurrence.
type DigestEvent struct {
	Name      string    `json:"name"`
	Type      EventType `json:"type"`
	ContactID int       `json:"contactId"`
	Date      time.Time `json:"date"`
}

// Digest is the home screen summary.
type Digest struct {
	Today         []DigestEvent `json:"today"`
	Upcoming      []DigestEvent `json:"upcoming"`
	NameDaysToday []string      `json:"nameDaysToday"`
}

// Dashboard collects today's personal events and those of the following
// config.UpcomingWindowDays days (tomorrow included), sorted by date.
// namesToday are the catalog names celebrated today.
func Dashboard(contacts []model.Contact, namesToday []string, now time.Time) Digest {
	today := Midnight(now)
	windowEnd := today.AddDate(0, 0, config.UpcomingWindowDays)

	digest := Digest{NameDaysToday: namesToday}
	add := func(c model.Contact, t EventType, d model.CalendarDate) {
		occ := NextOccurrence(d.MonthDay(), today)
		ev := DigestEvent{Name: c.DisplayName(), Type: t, ContactID: c.ID, Date: occ}
		switch {
		case occ.Equal(today):
			digest.Today = append(digest.Today, ev)
		case !occ.After(windowEnd):
			digest.Upcoming = append(digest.Upcoming, ev)
		}
	}

	for _, c := range contacts {
		if c.Birthday != nil {
			add(c, EventBirthday, *c.Birthday)
		}
		for _, nd := range c.NameDays {
			add(c, EventNameDay, nd.Date)
		}
	}

	slices.SortStableFunc(digest.Upcoming, func(a, b DigestEvent) int {
		return a.Date.Compare(b.Date)
	})
	return digest
}
