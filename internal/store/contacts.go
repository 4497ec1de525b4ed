package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

var (
	// ErrContactNotFound is returned for unknown contact IDs.
	ErrContactNotFound = errors.New(config.ErrContactNotFound)
	// ErrContactName is returned when a contact has no first name.
	ErrContactName = errors.New(config.ErrContactName)
)

// ContactRepository is the contact collection. Every mutation is a
// read-modify-write of the whole collection, serialized by a mutex.
type ContactRepository struct {
	store Store
	mu    sync.Mutex
}

func NewContactRepository(s Store) *ContactRepository {
	return &ContactRepository{store: s}
}

func (r *ContactRepository) load(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if _, err := r.store.Get(ctx, config.StoreKeyContacts, &contacts); err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].NameDays == nil {
			contacts[i].NameDays = []model.NameDayEntry{}
		}
	}
	return contacts, nil
}

// List returns every contact in insertion order.
func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Get returns the contact with id.
func (r *ContactRepository) Get(ctx context.Context, id int) (model.Contact, error) {
	contacts, err := r.List(ctx)
	if err != nil {
		return model.Contact{}, err
	}
	for _, c := range contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Contact{}, fmt.Errorf("%w: %d", ErrContactNotFound, id)
}

// Add assigns the next ID (highest existing + 1) and appends c.
func (r *ContactRepository) Add(ctx context.Context, c model.Contact) (model.Contact, error) {
	if err := validate(c); err != nil {
		return model.Contact{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return model.Contact{}, err
	}
	next := 1
	for _, existing := range contacts {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	c.ID = next
	if c.NameDays == nil {
		c.NameDays = []model.NameDayEntry{}
	}

	if err := r.store.Set(ctx, config.StoreKeyContacts, append(contacts, c)); err != nil {
		return model.Contact{}, err
	}
	slog.Debug(config.MsgContactSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyContactID, c.ID,
	)
	return c, nil
}

// Update replaces the contact with the same ID.
func (r *ContactRepository) Update(ctx context.Context, c model.Contact) (model.Contact, error) {
	if err := validate(c); err != nil {
		return model.Contact{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return model.Contact{}, err
	}
	i := slices.IndexFunc(contacts, func(existing model.Contact) bool { return existing.ID == c.ID })
	if i < 0 {
		return model.Contact{}, fmt.Errorf("%w: %d", ErrContactNotFound, c.ID)
	}
	if c.NameDays == nil {
		c.NameDays = []model.NameDayEntry{}
	}
	contacts[i] = c

	if err := r.store.Set(ctx, config.StoreKeyContacts, contacts); err != nil {
		return model.Contact{}, err
	}
	slog.Debug(config.MsgContactSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyContactID, c.ID,
	)
	return c, nil
}

// Delete removes the contact with id. Deleting an unknown ID is not an error.
func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(contacts, func(c model.Contact) bool { return c.ID == id })
	if err := r.store.Set(ctx, config.StoreKeyContacts, kept); err != nil {
		return err
	}
	slog.Debug(config.MsgContactDeleted,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyContactID, id,
	)
	return nil
}

// ReplaceAll overwrites the collection.
func (r *ContactRepository) ReplaceAll(ctx context.Context, contacts []model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return r.store.Set(ctx, config.StoreKeyContacts, contacts)
}

func validate(c model.Contact) error {
	if strings.TrimSpace(c.FirstName) == "" {
		return ErrContactName
	}
	return nil
}
