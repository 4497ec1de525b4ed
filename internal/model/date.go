package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
)

// CalendarDate is a local calendar day. Only Month and Day matter for yearly
// recurrence; Year is kept for display and for year-aware consumers.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// MonthDay is the year-agnostic part of a date. It is the key of per-day
// event indexes.
type MonthDay struct {
	Month time.Month
	Day   int
}

// NewCalendarDate builds a date, normalizing overflow the way time.Date does
// (Feb 29 in a non-leap year becomes Mar 1).
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// MonthDay drops the year.
func (d CalendarDate) MonthDay() MonthDay {
	return MonthDay{Month: d.Month, Day: d.Day}
}

// In returns midnight of d in loc.
func (d CalendarDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) String() string {
	return d.In(time.UTC).Format(config.DateFormatFullDash)
}

// MarshalJSON encodes the date as "2006-01-02".
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts every layout supported by ParseCalendarDate.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseCalendarDate parses full dates ("2006-01-02", "20060102", RFC 3339
// timestamps) and year-less vCard dates ("--01-02", "--0102"). Year-less dates
// get config.DefaultLeapYear so that Feb 29 survives.
func ParseCalendarDate(value string) (CalendarDate, error) {
	value = strings.TrimSpace(value)

	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			// Timestamps keep the calendar day as written in their own offset.
			return DateOf(t), nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return CalendarDate{Year: config.DefaultLeapYear, Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return CalendarDate{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}

// ParseMonthDay parses "01-02".
func ParseMonthDay(value string) (MonthDay, error) {
	t, err := time.Parse(config.DateFormatMonthDay, strings.TrimSpace(value))
	if err != nil {
		return MonthDay{}, fmt.Errorf("%s: %w", config.ErrMonthDay, err)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// Valid reports whether md names a day that exists in at least one year.
func (md MonthDay) Valid() bool {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return false
	}
	return md.Day <= time.Date(config.DefaultLeapYear, md.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// In returns midnight of md in year and loc.
func (md MonthDay) In(year int, loc *time.Location) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, loc)
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

var errInvalidMonthDay = errors.New(config.ErrMonthDay)

// MarshalText lets MonthDay be used as a JSON object key.
func (md MonthDay) MarshalText() ([]byte, error) {
	if !md.Valid() {
		return nil, errInvalidMonthDay
	}
	return []byte(md.String()), nil
}

func (md *MonthDay) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthDay(string(text))
	if err != nil {
		return err
	}
	*md = parsed
	return nil
}
