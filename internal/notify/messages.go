package notify

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Messages renders localized notification texts and event titles.
type Messages struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	languages []string
	lang      string
	ids       map[string]map[string]struct{}
}

// NewMessages loads the embedded locales and selects lang. Unknown languages
// fall back to English; a broken locale only loses its own keys.
func NewMessages(lang string) *Messages {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	m := &Messages{bundle: bundle, ids: make(map[string]map[string]struct{})}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		mf, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name)
		if err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		ids := make(map[string]struct{}, len(mf.Messages))
		for _, msg := range mf.Messages {
			ids[msg.ID] = struct{}{}
		}
		m.ids[langCode] = ids
		m.languages = append(m.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	m.lang = lang
	m.localizer = i18n.NewLocalizer(bundle, lang)
	return m
}

// Has reports whether the selected locale itself defines key.
func (m *Messages) Has(key string) bool {
	_, ok := m.ids[m.lang][key]
	return ok
}

// Languages lists the locales that loaded successfully.
func (m *Messages) Languages() []string {
	return m.languages
}

// text localizes key with name as template data, falling back to fallback
// (a printf format taking the name).
func (m *Messages) text(key, name, fallback string) string {
	if m != nil && m.localizer != nil {
		msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    key,
			TemplateData: map[string]string{"Name": name},
		})
		if err == nil {
			return msg
		}
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
	}
	if strings.Contains(fallback, "%s") {
		return fmt.Sprintf(fallback, name)
	}
	return fallback
}

// BirthdayTitle and the following methods return notification texts.
func (m *Messages) BirthdayTitle() string {
	return m.text(config.TKeyBirthdayTitle, "", config.FallbackBirthdayTitle)
}

func (m *Messages) BirthdayBody(name string) string {
	return m.text(config.TKeyBirthdayBody, name, config.FallbackBirthdayBody)
}

func (m *Messages) NameDayTitle() string {
	return m.text(config.TKeyNameDayTitle, "", config.FallbackNameDayTitle)
}

func (m *Messages) NameDayBody(name string) string {
	return m.text(config.TKeyNameDayBody, name, config.FallbackNameDayBody)
}

// EventTitle implements engine.TitleFunc.
func (m *Messages) EventTitle(t engine.EventType, name string, personal bool) string {
	switch {
	case !personal:
		return m.text(config.TKeyEvtGeneral, name, config.FallbackEvtGeneral)
	case t == engine.EventBirthday:
		return m.text(config.TKeyEvtBirthday, name, config.FallbackEvtBirthday)
	default:
		return m.text(config.TKeyEvtNameDay, name, config.FallbackEvtNameDay)
	}
}
