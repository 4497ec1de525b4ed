package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/model"
)

// ParseVCards decodes a vCard stream into contacts (ID unset). Cards without
// a usable name are skipped, malformed cards and birthdays are logged.
func ParseVCards(ctx context.Context, r io.Reader) ([]model.Contact, error) {
	log := slog.With(config.LogKeyComponent, config.CompStore)
	src := &contentReader{r: r}
	decoder := vcard.NewDecoder(src)

	var contacts []model.Contact
	decoded := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			// The decoder reports EOF without a card for text that holds no
			// BEGIN:VCARD at all.
			if decoded == 0 && src.content {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, errNoVCard)
			}
			break
		}
		decoded++
		if err != nil {
			// A broken stream cannot be resynchronized.
			if len(contacts) == 0 {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			break
		}

		first, last := cardName(card)
		if first == "" {
			log.Debug(config.MsgSkippedCard, config.LogKeyValue, card.Value(vcard.FieldUID))
			continue
		}

		c := model.Contact{
			FirstName:   first,
			LastName:    last,
			PhoneNumber: card.PreferredValue(vcard.FieldTelephone),
			NameDays:    []model.NameDayEntry{},
		}
		if bday := card.Value(vcard.FieldBirthday); bday != "" {
			d, err := model.ParseCalendarDate(bday)
			if err != nil {
				log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday)
			} else {
				c.Birthday = &d
				c.ReminderEnabled = true
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

var errNoVCard = errors.New(config.ErrNoVCard)

// contentReader records whether the stream held anything but whitespace.
type contentReader struct {
	r       io.Reader
	content bool
}

func (c *contentReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if !c.content && len(bytes.TrimSpace(p[:n])) > 0 {
		c.content = true
	}
	return n, err
}

// cardName prefers the structured N field and falls back to splitting FN.
func cardName(card vcard.Card) (first, last string) {
	if n := card.Name(); n != nil && strings.TrimSpace(n.GivenName) != "" {
		return strings.TrimSpace(n.GivenName), strings.TrimSpace(n.FamilyName)
	}
	fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName))
	first, last, _ = strings.Cut(fn, " ")
	return first, strings.TrimSpace(last)
}

// ImportVCard appends every contact of a vCard stream and returns them with
// their assigned IDs.
func (r *ContactRepository) ImportVCard(ctx context.Context, rd io.Reader) ([]model.Contact, error) {
	parsed, err := ParseVCards(ctx, rd)
	if err != nil {
		return nil, err
	}

	added := make([]model.Contact, 0, len(parsed))
	for _, c := range parsed {
		saved, err := r.Add(ctx, c)
		if err != nil {
			return added, err
		}
		added = append(added, saved)
	}
	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompStore,
		config.LogKeySource, config.MimeVCard,
		config.LogKeyCount, len(added),
	)
	return added, nil
}
