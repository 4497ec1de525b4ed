package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// BuildICS renders events as an iCalendar feed of all-day, yearly recurring
// VEVENTs. Personal events carry a DISPLAY alarm at the reminder time of day.
// An empty input yields config.StubVCalendar.
func BuildICS(events []CalendarEvent, settings model.AppSettings, now time.Time) ([]byte, error) {
	if len(events) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	h, m, s, err := settings.ReminderClock()
	if err != nil {
		return nil, err
	}
	trigger := formatTrigger(h, m, s)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, e := range events {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, eventUID(e))
		event.Props.SetText(config.PropSummary, e.Title)
		event.Props.SetText(config.PropCategories, string(e.Type))
		event.Props.Set(dtStampProp)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(e.Date.In(time.UTC))
		event.Props.Set(dtStartProp)
		event.Props.SetRecurrenceRule(yearlyRule(e.Date.MonthDay()))

		if e.IsReminder {
			addAlarm(event, trigger, e.Title)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgFeedBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(events),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// yearlyRule recurs every year. Day 60 of the year is Feb 29 in leap years
// and Mar 1 otherwise, the same day reminders and the month grid use.
func yearlyRule(md model.MonthDay) *rrule.ROption {
	opt := &rrule.ROption{Freq: rrule.YEARLY}
	if md == (model.MonthDay{Month: time.February, Day: 29}) {
		opt.Byyearday = []int{leapDayOfYear}
	}
	return opt
}

const leapDayOfYear = 60

// eventUID is stable across feed refreshes.
func eventUID(e CalendarEvent) string {
	input := fmt.Sprintf(config.FormatHashInput, e.Title, e.ContactID, e.Type, e.Date.MonthDay(), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// formatTrigger renders an offset from midnight as an RFC 5545 duration ("PT9H30M").
func formatTrigger(h, m, s int) string {
	if h == 0 && m == 0 && s == 0 {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
