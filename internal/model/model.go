package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
)

// NameDayEntry is one personal name-day attached to a contact.
type NameDayEntry struct {
	Date  CalendarDate `json:"date"`
	Notes string       `json:"notes,omitempty"`
}

// Contact is the persisted record of a person with their personal events.
// The JSON shape is the backup format.
type Contact struct {
	ID              int            `json:"id"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName,omitempty"`
	Birthday        *CalendarDate  `json:"birthday,omitempty"`
	PhoneNumber     string         `json:"phoneNumber,omitempty"`
	NameDays        []NameDayEntry `json:"nameDays"`
	ReminderEnabled bool           `json:"reminderEnabled"`
}

// DisplayName joins first and last name.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasEvents reports whether the contact has a birthday or at least one name day.
func (c Contact) HasEvents() bool {
	return c.Birthday != nil || len(c.NameDays) > 0
}

// AddNameDay appends a name day unless an entry with the same date already
// exists. It reports whether the entry was added.
func (c *Contact) AddNameDay(date CalendarDate, notes string) bool {
	for _, nd := range c.NameDays {
		if nd.Date == date {
			return false
		}
	}
	c.NameDays = append(c.NameDays, NameDayEntry{Date: date, Notes: notes})
	return true
}

// AppSettings holds user preferences persisted in the store.
type AppSettings struct {
	// DefaultReminderTime is the local time of day ("HH:MM:SS") notifications fire at.
	DefaultReminderTime string `json:"defaultReminderTime"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() AppSettings {
	return AppSettings{DefaultReminderTime: config.DefaultReminderTime}
}

// ReminderClock parses DefaultReminderTime.
func (s AppSettings) ReminderClock() (hour, minute, second int, err error) {
	t, err := time.Parse(config.ReminderTimeLayout, s.DefaultReminderTime)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%s: %w", config.ErrReminderTime, err)
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}
