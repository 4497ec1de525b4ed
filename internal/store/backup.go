package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// ErrInvalidBackup is returned when a backup is not an array of contacts.
var ErrInvalidBackup = errors.New(config.ErrInvalidBackup)

// BackupFileName returns the suggested export file name for t.
func BackupFileName(t time.Time) string {
	return config.BackupFilePrefix + t.Format(config.DateFormatFullDash) + config.ExtJSON
}

// ExportJSON writes every contact as an indented JSON array.
func (r *ContactRepository) ExportJSON(ctx context.Context, w io.Writer) (int, error) {
	contacts, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contacts); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrBackupEncode, err)
	}
	slog.Info(config.MsgExported,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyCount, len(contacts),
	)
	return len(contacts), nil
}

// ImportJSON replaces the collection with a backup. The document must be an
// array, and when non-empty its first element must carry a first name.
func (r *ContactRepository) ImportJSON(ctx context.Context, rd io.Reader) (int, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(rd).Decode(&raw); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if len(raw) > 0 {
		var head struct {
			FirstName string `json:"firstName"`
		}
		if err := json.Unmarshal(raw[0], &head); err != nil || head.FirstName == "" {
			return 0, ErrInvalidBackup
		}
	}

	contacts := make([]model.Contact, 0, len(raw))
	for _, item := range raw {
		var c model.Contact
		if err := json.Unmarshal(item, &c); err != nil {
			return 0, fmt.Errorf("%s: %w", config.ErrBackupDecode, err)
		}
		if c.NameDays == nil {
			c.NameDays = []model.NameDayEntry{}
		}
		contacts = append(contacts, c)
	}

	if err := r.ReplaceAll(ctx, contacts); err != nil {
		return 0, err
	}
	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyCount, len(contacts),
	)
	return len(contacts), nil
}
