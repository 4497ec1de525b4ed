package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/nameday"
)

func flat(name string, m time.Month, d int) nameday.FlatNameDay {
	return nameday.FlatNameDay{Name: name, Date: date(2024, m, d), Tradition: "Hungary"}
}

func TestMerge_SuppressesMatchingCatalogEntry(t *testing.T) {
	contacts := []model.Contact{{
		ID:        1,
		FirstName: "Éva",
		NameDays:  []model.NameDayEntry{{Date: date(2023, time.March, 25)}},
	}}
	catalog := []nameday.FlatNameDay{flat("Eva", time.March, 25)}

	events := engine.Merge(contacts, catalog)

	require.Len(t, events, 1)
	assert.True(t, events[0].IsReminder)
	assert.Equal(t, 1, events[0].ContactID)
	assert.Equal(t, "🎉 Éva", events[0].Title)
}

func TestMerge_Ordering(t *testing.T) {
	contacts := []model.Contact{
		{
			ID:        1,
			FirstName: "Anna",
			Birthday:  ptr(date(1990, time.May, 17)),
			NameDays:  []model.NameDayEntry{{Date: date(2023, time.July, 26)}},
		},
		{ID: 2, FirstName: "Béla", Birthday: ptr(date(1985, time.January, 2))},
	}
	catalog := []nameday.FlatNameDay{
		flat("Fruzsina", time.January, 1),
		flat("Anna", time.July, 26),
		flat("Anna", time.December, 9),
	}

	events := engine.Merge(contacts, catalog)

	var titles []string
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"🎂 Anna", "🎉 Anna", "🎂 Béla", "Fruzsina", "Anna"}, titles)
	assert.False(t, events[3].IsReminder)
	assert.Zero(t, events[3].ContactID)
	assert.Equal(t, date(2024, time.December, 9), events[4].Date)
}

func TestMerge_BirthdaysDoNotSuppress(t *testing.T) {
	contacts := []model.Contact{{ID: 1, FirstName: "Anna", Birthday: ptr(date(1990, time.July, 26))}}
	catalog := []nameday.FlatNameDay{flat("Anna", time.July, 26)}

	events := engine.Merge(contacts, catalog)

	require.Len(t, events, 2)
	assert.Equal(t, engine.EventBirthday, events[0].Type)
	assert.False(t, events[1].IsReminder)
}

func TestMerge_SuppressionNeedsSameDay(t *testing.T) {
	contacts := []model.Contact{{
		ID:        1,
		FirstName: "Anna",
		NameDays:  []model.NameDayEntry{{Date: date(2023, time.July, 26)}},
	}}
	catalog := []nameday.FlatNameDay{flat("Anna", time.December, 9), flat("Hanna", time.July, 26)}

	events := engine.Merge(contacts, catalog)

	assert.Len(t, events, 3)
}

func TestMerger_FormatTitle(t *testing.T) {
	m := engine.Merger{FormatTitle: func(et engine.EventType, name string, personal bool) string {
		return fmt.Sprintf("%s:%s:%t", et, name, personal)
	}}
	contacts := []model.Contact{{ID: 1, FirstName: "Anna", Birthday: ptr(date(1990, time.May, 17))}}

	events := m.Merge(contacts, []nameday.FlatNameDay{flat("Ella", time.May, 1)})

	require.Len(t, events, 2)
	assert.Equal(t, "birthday:Anna:true", events[0].Title)
	assert.Equal(t, "nameday:Ella:false", events[1].Title)
}

func TestIndexByDay(t *testing.T) {
	events := []engine.CalendarEvent{
		{Title: "a", Date: date(1990, time.March, 25)},
		{Title: "b", Date: date(2024, time.March, 25)},
		{Title: "c", Date: date(2024, time.March, 26)},
	}

	idx := engine.IndexByDay(events)

	assert.Len(t, idx, 2)
	md := model.MonthDay{Month: time.March, Day: 25}
	require.Len(t, idx[md], 2)
	assert.Equal(t, "a", idx[md][0].Title)
	assert.Equal(t, "b", idx[md][1].Title)
}
