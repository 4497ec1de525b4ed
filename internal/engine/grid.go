package engine

import (
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// DayEventType summarizes the personal events of a day.
type DayEventType string

const (
	DayNone     DayEventType = "none"
	DayBirthday DayEventType = "birthday"
	DayNameDay  DayEventType = "nameday"
	DayBoth     DayEventType = "both"
)

// DayCell is one day of a month grid.
type DayCell struct {
	Day       int             `json:"day"`
	Date      time.Time       `json:"date"`
	IsToday   bool            `json:"isToday"`
	EventType DayEventType    `json:"eventType"`
	Events    []CalendarEvent `json:"events"`
}

// MonthGrid is a month as week rows of 7 cells. Nil cells pad the first and
// last rows.
type MonthGrid struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Weeks [][]*DayCell `json:"weeks"`
}

// BuildMonth lays out year/month with weeks starting on Sunday.
func BuildMonth(events DayIndex, year int, month time.Month, today time.Time) MonthGrid {
	return BuildMonthFrom(events, year, month, today, config.DefaultWeekStart)
}

// BuildMonthFrom lays out year/month with weeks starting on weekStart. Cell
// dates use today's location. In common years, Mar 1 also lists Feb 29 events.
func BuildMonthFrom(events DayIndex, year int, month time.Month, today time.Time, weekStart time.Weekday) MonthGrid {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Normalize overflowing months (e.g. month 13).
	year, month = first.Year(), first.Month()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	todayDate := model.DateOf(today)

	grid := MonthGrid{Year: year, Month: month}
	week := make([]*DayCell, 0, 7)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	for range lead {
		week = append(week, nil)
	}

	for d := 1; d <= daysInMonth; d++ {
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]*DayCell, 0, 7)
		}
		md := model.MonthDay{Month: month, Day: d}
		dayEvents := events[md]
		if md == (model.MonthDay{Month: time.March, Day: 1}) && !isLeap(year) {
			dayEvents = append(append([]CalendarEvent(nil), dayEvents...), events[model.MonthDay{Month: time.February, Day: 29}]...)
		}

		week = append(week, &DayCell{
			Day:       d,
			Date:      time.Date(year, month, d, 0, 0, 0, 0, loc),
			IsToday:   todayDate == model.CalendarDate{Year: year, Month: month, Day: d},
			EventType: classifyDay(dayEvents),
			Events:    dayEvents,
		})
	}

	for len(week) < 7 {
		week = append(week, nil)
	}
	grid.Weeks = append(grid.Weeks, week)
	return grid
}

// classifyDay only looks at personal events.
func classifyDay(events []CalendarEvent) DayEventType {
	var birthday, nameDay bool
	for _, e := range events {
		if !e.IsReminder {
			continue
		}
		switch e.Type {
		case EventBirthday:
			birthday = true
		case EventNameDay:
			nameDay = true
		}
	}
	switch {
	case birthday && nameDay:
		return DayBoth
	case birthday:
		return DayBirthday
	case nameDay:
		return DayNameDay
	default:
		return DayNone
	}
}

func isLeap(year int) bool {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366
}
