package engine

import (
	"time"

	"github.com/tartampluch/hellodays/internal/model"
)

// NextOccurrence returns midnight of the next day (today included) on which md
// falls, in today's location. Feb 29 becomes Mar 1 in common years.
func NextOccurrence(md model.MonthDay, today time.Time) time.Time {
	start := Midnight(today)
	candidate := md.In(start.Year(), start.Location())
	if candidate.Before(start) {
		candidate = md.In(start.Year()+1, start.Location())
	}
	return candidate
}

// NextOccurrenceForContact returns the earliest next occurrence among the
// contact's birthday and name days. ok is false when the contact has none.
func NextOccurrenceForContact(c model.Contact, today time.Time) (next time.Time, ok bool) {
	consider := func(d model.CalendarDate) {
		occ := NextOccurrence(d.MonthDay(), today)
		if !ok || occ.Before(next) {
			next, ok = occ, true
		}
	}

	if c.Birthday != nil {
		consider(*c.Birthday)
	}
	for _, nd := range c.NameDays {
		consider(nd.Date)
	}
	return next, ok
}
