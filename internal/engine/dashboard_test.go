package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
)

func TestDashboard(t *testing.T) {
	now := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	contacts := []model.Contact{
		{
			ID:        1,
			FirstName: "Anna",
			LastName:  "Kovács",
			Birthday:  ptr(date(1990, time.June, 1)),
			NameDays: []model.NameDayEntry{
				{Date: date(2023, time.June, 8)},
				{Date: date(2023, time.June, 9)},
			},
		},
		{ID: 2, FirstName: "Béla", Birthday: ptr(date(1985, time.June, 3))},
		{ID: 3, FirstName: "Cili", NameDays: []model.NameDayEntry{{Date: date(2023, time.May, 31)}}},
	}

	digest := engine.Dashboard(contacts, []string{"Tünde"}, now)

	require.Len(t, digest.Today, 1)
	assert.Equal(t, "Anna Kovács", digest.Today[0].Name)
	assert.Equal(t, engine.EventBirthday, digest.Today[0].Type)

	require.Len(t, digest.Upcoming, 2, "tomorrow through today+7, inclusive")
	assert.Equal(t, "Béla", digest.Upcoming[0].Name)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), digest.Upcoming[0].Date)
	assert.Equal(t, engine.EventNameDay, digest.Upcoming[1].Type)
	assert.Equal(t, 1, digest.Upcoming[1].ContactID)
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), digest.Upcoming[1].Date)

	assert.Equal(t, []string{"Tünde"}, digest.NameDaysToday)
}

func TestDashboard_WindowCrossesYearEnd(t *testing.T) {
	now := time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)
	contacts := []model.Contact{{ID: 1, FirstName: "Fruzsina", NameDays: []model.NameDayEntry{{Date: date(2024, time.January, 1)}}}}

	digest := engine.Dashboard(contacts, nil, now)

	require.Len(t, digest.Upcoming, 1)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), digest.Upcoming[0].Date)
	assert.Empty(t, digest.Today)
}
