// Package nameday loads the cultural name-day calendar and answers name and
// date lookups against a flattened, lazily built snapshot.
package nameday

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/normalize"
)

// Data is the raw catalog: English month name -> day number -> tradition -> names.
type Data map[string]map[string]map[string][]string

// Source provides the raw catalog.
type Source interface {
	Load(ctx context.Context) (Data, error)
}

// FlatNameDay is one (name, date, tradition) record of the flattened catalog.
// Date carries the year the catalog was loaded in.
type FlatNameDay struct {
	Name           string
	NormalizedName string
	Date           model.CalendarDate
	Tradition      string
}

// Catalog caches the flattened catalog for the process lifetime.
// The zero value is not usable; use NewCatalog.
type Catalog struct {
	source Source

	// Now supplies the load year. Defaults to time.Now.
	Now func() time.Time

	mu     sync.RWMutex
	loaded bool
	flat   []FlatNameDay
}

// NewCatalog creates a catalog backed by src. Nothing is read until Load.
func NewCatalog(src Source) *Catalog {
	return &Catalog{source: src, Now: time.Now}
}

// Load reads and flattens the source once. Later calls are no-ops.
// On failure the catalog stays empty and a later call retries.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	done := c.loaded
	c.mu.RUnlock()
	if done {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	data, err := c.source.Load(ctx)
	if err != nil {
		return err
	}

	c.flat = Flatten(data, c.Now().Year())
	c.loaded = true

	slog.Info(config.MsgCatalogLoaded,
		config.LogKeyComponent, config.CompCatalog,
		config.LogKeyCount, len(c.flat),
	)
	return nil
}

// Reset drops the snapshot so that the next Load reads the source again.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.flat = nil
}

// snapshot returns the flattened list, loading it on first use. Load errors
// degrade to an empty list.
func (c *Catalog) snapshot() []FlatNameDay {
	if err := c.Load(context.Background()); err != nil {
		slog.Warn(config.MsgCatalogFailed,
			config.LogKeyComponent, config.CompCatalog,
			config.LogKeyError, err,
		)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flat
}

// AllNameDays returns the flattened catalog. The slice must not be modified.
func (c *Catalog) AllNameDays() []FlatNameDay {
	return c.snapshot()
}

// FindDatesForName returns every date on which name is celebrated in
// tradition, comparing normalized names.
func (c *Catalog) FindDatesForName(name, tradition string) []model.CalendarDate {
	tradition = orDefault(tradition)
	key := normalize.Name(name)

	var dates []model.CalendarDate
	for _, nd := range c.snapshot() {
		if nd.NormalizedName == key && nd.Tradition == tradition {
			dates = append(dates, nd.Date)
		}
	}
	return dates
}

// AutocompleteSuggestions returns the display names in tradition whose
// normalized form starts with the normalized partial, deduplicated in
// catalog order. An empty partial yields nothing.
func (c *Catalog) AutocompleteSuggestions(partial, tradition string) []string {
	prefix := normalize.Name(strings.TrimSpace(partial))
	if prefix == "" {
		return nil
	}
	tradition = orDefault(tradition)

	var out []string
	seen := make(map[string]struct{})
	for _, nd := range c.snapshot() {
		if nd.Tradition != tradition || !strings.HasPrefix(nd.NormalizedName, prefix) {
			continue
		}
		if _, dup := seen[nd.Name]; dup {
			continue
		}
		seen[nd.Name] = struct{}{}
		out = append(out, nd.Name)
	}
	return out
}

// NamesOn returns the names celebrated on md in tradition.
func (c *Catalog) NamesOn(md model.MonthDay, tradition string) []string {
	tradition = orDefault(tradition)

	var out []string
	for _, nd := range c.snapshot() {
		if nd.Tradition == tradition && nd.Date.MonthDay() == md {
			out = append(out, nd.Name)
		}
	}
	return out
}

// Flatten expands data into records dated in year. Months are visited in
// calendar order, days numerically and traditions alphabetically so that the
// output order is stable. Unknown months and invalid days are skipped.
func Flatten(data Data, year int) []FlatNameDay {
	log := slog.With(config.LogKeyComponent, config.CompCatalog)

	for name := range data {
		if _, ok := monthByName[name]; !ok {
			log.Warn(config.MsgSkippedMonth, config.LogKeyMonth, name)
		}
	}

	var out []FlatNameDay
	for m := time.January; m <= time.December; m++ {
		days, ok := data[m.String()]
		if !ok {
			continue
		}

		type dayEntry struct {
			day        int
			traditions map[string][]string
		}
		entries := make([]dayEntry, 0, len(days))
		for raw, traditions := range days {
			d, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || !(model.MonthDay{Month: m, Day: d}).Valid() {
				log.Warn(config.MsgSkippedDay,
					config.LogKeyMonth, m.String(),
					config.LogKeyDay, raw,
				)
				continue
			}
			entries = append(entries, dayEntry{day: d, traditions: traditions})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].day < entries[j].day })

		for _, e := range entries {
			date := model.NewCalendarDate(year, m, e.day)
			traditions := make([]string, 0, len(e.traditions))
			for t := range e.traditions {
				traditions = append(traditions, t)
			}
			slices.Sort(traditions)

			for _, t := range traditions {
				for _, name := range e.traditions[t] {
					out = append(out, FlatNameDay{
						Name:           name,
						NormalizedName: normalize.Name(name),
						Date:           date,
						Tradition:      t,
					})
				}
			}
		}
	}
	return out
}

var monthByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[mo.String()] = mo
	}
	return m
}()

func orDefault(tradition string) string {
	if tradition == "" {
		return config.DefaultTradition
	}
	return tradition
}
