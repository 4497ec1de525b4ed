package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"StoreKeyContacts", config.StoreKeyContacts},
		{"StoreKeySettings", config.StoreKeySettings},
		{"StoreKeyNotifications", config.StoreKeyNotifications},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	_, err := time.Parse(config.ReminderTimeLayout, config.DefaultReminderTime)
	assert.NoError(t, err, "Default reminder time must parse with the reminder layout")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Equal(t, "Hungary", config.DefaultTradition)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "HelloDays/"), "UserAgent must start with AppName/")
}

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", config.ConfigFileName)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "nested", config.DataFileName), cfg.DataPath)
	assert.Equal(t, config.DefaultTradition, cfg.Tradition)
	assert.True(t, cfg.IncludeGeneralNameDays)

	info, err := os.Stat(path)
	require.NoError(t, err, "First run must persist the defaults")
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())
}

func TestLoad_NormalizesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("tradition: Slovakia\nlanguage: xx\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Slovakia", cfg.Tradition)
	assert.Equal(t, config.DefaultLanguage, cfg.Language, "Unsupported language falls back to default")
	assert.Equal(t, config.DefaultRescheduleCron, cfg.RescheduleCron)
	assert.Equal(t, config.CatalogEmbedded, cfg.Catalog)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrConfigParse)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	cfg := config.DefaultFile(filepath.Dir(path))
	cfg.CardDAVURL = "https://dav.example.com/contacts.vcf"
	cfg.CardDAVUser = "alice"

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_Guards(t *testing.T) {
	assert.EqualError(t, config.Save("", &config.File{}), config.ErrConfigPathEmpty)
	assert.EqualError(t, config.Save("x.yaml", nil), config.ErrConfigNil)
	_, err := config.Load("")
	assert.EqualError(t, err, config.ErrConfigPathEmpty)
}
