package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
)

func TestBuildMonth_Layout(t *testing.T) {
	today := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	grid := engine.BuildMonth(nil, 2024, time.March, today)

	// March 1st 2024 is a Friday.
	require.Len(t, grid.Weeks, 6)
	for i := 0; i < 5; i++ {
		assert.Nil(t, grid.Weeks[0][i])
	}
	require.NotNil(t, grid.Weeks[0][5])
	assert.Equal(t, 1, grid.Weeks[0][5].Day)
	assert.Equal(t, 31, grid.Weeks[5][0].Day)
	for i := 1; i < 7; i++ {
		assert.Nil(t, grid.Weeks[5][i])
	}

	cell := grid.Weeks[2][3]
	require.NotNil(t, cell)
	assert.Equal(t, 13, cell.Day)
	assert.True(t, cell.IsToday)
	assert.Equal(t, engine.DayNone, cell.EventType)
}

func TestBuildMonthFrom_MondayStart(t *testing.T) {
	grid := engine.BuildMonthFrom(nil, 2024, time.March, time.Now(), time.Monday)

	require.Len(t, grid.Weeks, 5)
	assert.Nil(t, grid.Weeks[0][3])
	require.NotNil(t, grid.Weeks[0][4])
	assert.Equal(t, 1, grid.Weeks[0][4].Day)
}

func TestBuildMonth_Completeness(t *testing.T) {
	for _, start := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		for year := 2023; year <= 2026; year++ {
			for m := time.January; m <= time.December; m++ {
				grid := engine.BuildMonthFrom(nil, year, m, time.Now(), start)
				daysInMonth := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()

				count := 0
				for w, week := range grid.Weeks {
					require.Len(t, week, 7)
					for i, cell := range week {
						if cell != nil {
							count++
							assert.Equal(t, count, cell.Day)
							continue
						}
						first := w == 0 && count == 0
						last := w == len(grid.Weeks)-1 && count == daysInMonth
						assert.True(t, first || last, "nil padding only at edges: %d-%02d week %d cell %d", year, m, w, i)
					}
				}
				assert.Equal(t, daysInMonth, count)
			}
		}
	}
}

func TestBuildMonth_EventType(t *testing.T) {
	events := engine.IndexByDay([]engine.CalendarEvent{
		{Type: engine.EventBirthday, Date: date(1990, time.May, 1), IsReminder: true},
		{Type: engine.EventNameDay, Date: date(2024, time.May, 1), IsReminder: true},
		{Type: engine.EventBirthday, Date: date(1990, time.May, 2), IsReminder: true},
		{Type: engine.EventNameDay, Date: date(2024, time.May, 2)},
		{Type: engine.EventNameDay, Date: date(2024, time.May, 3), IsReminder: true},
		{Type: engine.EventNameDay, Date: date(2024, time.May, 4)},
	})

	grid := engine.BuildMonth(events, 2024, time.May, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	cells := make(map[int]*engine.DayCell)
	for _, week := range grid.Weeks {
		for _, c := range week {
			if c != nil {
				cells[c.Day] = c
			}
		}
	}

	assert.Equal(t, engine.DayBoth, cells[1].EventType)
	assert.Equal(t, engine.DayBirthday, cells[2].EventType)
	assert.Len(t, cells[2].Events, 2, "general events are attached but ignored for the type")
	assert.Equal(t, engine.DayNameDay, cells[3].EventType)
	assert.Equal(t, engine.DayNone, cells[4].EventType)
	assert.Len(t, cells[4].Events, 1)
	assert.Equal(t, engine.DayNone, cells[5].EventType)
	assert.Empty(t, cells[5].Events)
	assert.False(t, cells[1].IsToday)
}

func TestBuildMonth_LeapDayInCommonYear(t *testing.T) {
	events := engine.IndexByDay([]engine.CalendarEvent{
		{Title: "leap", Type: engine.EventBirthday, Date: date(2000, time.February, 29), IsReminder: true},
	})

	common := engine.BuildMonth(events, 2025, time.March, time.Now())
	leap := engine.BuildMonth(events, 2024, time.March, time.Now())

	var mar1Common, mar1Leap *engine.DayCell
	for _, c := range common.Weeks[0] {
		if c != nil && c.Day == 1 {
			mar1Common = c
		}
	}
	for _, c := range leap.Weeks[0] {
		if c != nil && c.Day == 1 {
			mar1Leap = c
		}
	}
	require.NotNil(t, mar1Common)
	require.NotNil(t, mar1Leap)
	assert.Equal(t, engine.DayBirthday, mar1Common.EventType)
	assert.Empty(t, mar1Leap.Events)
	assert.Len(t, events[model.MonthDay{Month: time.February, Day: 29}], 1, "index is not mutated")
}
