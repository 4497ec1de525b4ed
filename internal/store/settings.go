package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// ErrInvalidReminderTime is returned by Save for malformed reminder times.
var ErrInvalidReminderTime = errors.New(config.ErrReminderTime)

// SettingsService is the process-wide settings holder. Values are loaded
// lazily and broadcast to subscribers on every save.
type SettingsService struct {
	store Store

	mu      sync.RWMutex
	loaded  bool
	current model.AppSettings

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(model.AppSettings)
}

func NewSettingsService(s Store) *SettingsService {
	return &SettingsService{store: s, subs: make(map[int]func(model.AppSettings))}
}

// Init loads the stored settings, falling back to defaults.
func (s *SettingsService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *SettingsService) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	settings := model.DefaultSettings()
	found, err := s.store.Get(ctx, config.StoreKeySettings, &settings)
	if err != nil {
		return err
	}
	if _, _, _, err := settings.ReminderClock(); !found || err != nil {
		settings = model.DefaultSettings()
	}
	s.current = settings
	s.loaded = true

	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyValue, settings.DefaultReminderTime,
	)
	return nil
}

// Current returns the settings, loading them on first use. Load failures
// yield the defaults.
func (s *SettingsService) Current(ctx context.Context) model.AppSettings {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		slog.Warn(config.ErrStoreRead,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyError, err,
		)
		return model.DefaultSettings()
	}
	return s.current
}

// Save validates, persists and broadcasts settings.
func (s *SettingsService) Save(ctx context.Context, settings model.AppSettings) error {
	if _, _, _, err := settings.ReminderClock(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidReminderTime, settings.DefaultReminderTime)
	}

	s.mu.Lock()
	if err := s.store.Set(ctx, config.StoreKeySettings, settings); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = settings
	s.loaded = true
	s.mu.Unlock()

	slog.Info(config.MsgSettingsSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyValue, settings.DefaultReminderTime,
	)
	s.broadcast(settings)
	return nil
}

// Subscribe registers fn for future saves. The returned func unsubscribes.
func (s *SettingsService) Subscribe(fn func(model.AppSettings)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SettingsService) broadcast(settings model.AppSettings) {
	s.subMu.Lock()
	fns := make([]func(model.AppSettings), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error(config.MsgSubscriberPanic,
						config.LogKeyComponent, config.CompStore,
						config.LogKeyError, r,
					)
				}
			}()
			fn(settings)
		}()
	}
}
