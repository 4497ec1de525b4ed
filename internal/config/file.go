package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// File is the runtime configuration persisted as YAML next to the data store.
type File struct {
	// DataPath is the JSON key-value store holding contacts, settings and pending notifications.
	DataPath string `yaml:"data_path"`

	// Listen is the HTTP listen address used by `serve`.
	Listen string `yaml:"listen"`

	// Language selects the locale for notification texts and feed summaries.
	Language string `yaml:"language"`

	// Tradition selects which name-day tradition of the catalog is used for
	// suggestions and general name days.
	Tradition string `yaml:"tradition"`

	// Catalog is either "embedded", a local JSON path or an http(s) URL.
	Catalog string `yaml:"catalog"`

	// IncludeGeneralNameDays adds catalog name days (not tied to a contact)
	// to month views and the calendar feed.
	IncludeGeneralNameDays bool `yaml:"include_general_name_days"`

	// RescheduleCron re-arms every contact's one-shot notifications.
	RescheduleCron string `yaml:"reschedule_cron"`

	// DispatchCron controls how often due notifications are popped.
	DispatchCron string `yaml:"dispatch_cron"`

	// CardDAVURL and CardDAVUser configure the remote vCard import.
	// The password lives in the OS keyring.
	CardDAVURL  string `yaml:"carddav_url,omitempty"`
	CardDAVUser string `yaml:"carddav_user,omitempty"`
}

// DefaultFile returns an in-memory default configuration whose data file
// lives in dir.
func DefaultFile(dir string) *File {
	return &File{
		DataPath:               filepath.Join(dir, DataFileName),
		Listen:                 DefaultListen,
		Language:               DefaultLanguage,
		Tradition:              DefaultTradition,
		Catalog:                DefaultCatalog,
		IncludeGeneralNameDays: true,
		RescheduleCron:         DefaultRescheduleCron,
		DispatchCron:           DefaultDispatchCron,
	}
}

// Normalize fills in missing values so that partially written files still work.
func (f *File) Normalize(dir string) {
	def := DefaultFile(dir)
	if f.DataPath == "" {
		f.DataPath = def.DataPath
	}
	if f.Listen == "" {
		f.Listen = def.Listen
	}
	if !slices.Contains(SupportedLanguages, f.Language) {
		f.Language = def.Language
	}
	if f.Tradition == "" {
		f.Tradition = def.Tradition
	}
	if f.Catalog == "" {
		f.Catalog = def.Catalog
	}
	if f.RescheduleCron == "" {
		f.RescheduleCron = def.RescheduleCron
	}
	if f.DispatchCron == "" {
		f.DispatchCron = def.DispatchCron
	}
}

// DefaultPath returns the platform-specific location of the configuration file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, ConfigFileName), nil
}

// Load reads the YAML file at path. On first run the file does not exist yet:
// defaults are written to path (0600) and returned.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, errors.New(ErrConfigPathEmpty)
	}
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
		cfg := DefaultFile(dir)
		if err := Save(path, cfg); err != nil {
			// The defaults are still usable in memory.
			return cfg, err
		}
		slog.Info(MsgConfigCreated,
			LogKeyComponent, CompConfig,
			LogKeyFile, path,
		)
		return cfg, nil
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigParse, err)
	}
	cfg.Normalize(dir)
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 permissions.
func Save(path string, cfg *File) error {
	if path == "" {
		return errors.New(ErrConfigPathEmpty)
	}
	if cfg == nil {
		return errors.New(ErrConfigNil)
	}
	dir := filepath.Dir(path)
	cfg.Normalize(dir)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%s: %w", ErrConfigWrite, err)
	}
	return nil
}

// WriteFileAtomic writes data next to path and renames it into place so that
// readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, ".hellodays-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, FilePermUserRW); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
