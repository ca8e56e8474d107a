// Package config loads animicons settings and builds the default offline
// backend from them.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// ANIMICONS_* environment variables.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/library"
	"github.com/roach88/animicons/internal/offline"
)

// Backend kinds.
const (
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
)

// Flat-store media.
const (
	MediumFile   = "file"
	MediumBolt   = "bolt"
	MediumMemory = "memory"
)

var (
	validBackends = []string{BackendLocal, BackendSQLite}
	validMedia    = []string{MediumFile, MediumBolt, MediumMemory}
	validDrivers  = []string{offline.DriverSQLite3, offline.DriverSQLite}
)

// Settings configures the offline cache and the library.
type Settings struct {
	DataDir       string          `yaml:"data_dir" env:"ANIMICONS_DATA_DIR"`
	Backend       string          `yaml:"backend" env:"ANIMICONS_BACKEND"`
	Medium        string          `yaml:"medium" env:"ANIMICONS_MEDIUM"`
	StorageKey    string          `yaml:"storage_key" env:"ANIMICONS_STORAGE_KEY"`
	DatabaseName  string          `yaml:"database_name" env:"ANIMICONS_DATABASE_NAME"`
	StoreName     string          `yaml:"store_name" env:"ANIMICONS_STORE_NAME"`
	SchemaVersion string          `yaml:"schema_version" env:"ANIMICONS_SCHEMA_VERSION"`
	Driver        string          `yaml:"driver" env:"ANIMICONS_DRIVER"`
	Catalog       string          `yaml:"catalog" env:"ANIMICONS_CATALOG"`
	Library       LibrarySettings `yaml:"library"`
}

// LibrarySettings are the library defaults.
type LibrarySettings struct {
	BaseURL           string `yaml:"base_url" env:"ANIMICONS_BASE_URL"`
	EnableOfflineMode bool   `yaml:"enable_offline_mode" env:"ANIMICONS_ENABLE_OFFLINE_MODE"`
	DefaultSize       int    `yaml:"default_size" env:"ANIMICONS_DEFAULT_SIZE"`
	DefaultColor      string `yaml:"default_color" env:"ANIMICONS_DEFAULT_COLOR"`
	DefaultAnimation  string `yaml:"default_animation" env:"ANIMICONS_DEFAULT_ANIMATION"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		DataDir:       defaultDataDir(),
		Backend:       BackendLocal,
		Medium:        MediumFile,
		StorageKey:    offline.DefaultStorageKey,
		DatabaseName:  offline.DefaultDatabaseName,
		StoreName:     offline.DefaultTable,
		SchemaVersion: offline.DefaultVersion,
		Driver:        offline.DriverSQLite3,
		Library: LibrarySettings{
			BaseURL:           library.DefaultBaseURL,
			EnableOfflineMode: true,
			DefaultSize:       library.DefaultSize,
			DefaultColor:      library.DefaultColor,
			DefaultAnimation:  string(icon.AnimationFade),
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "animicons")
	}
	return ".animicons"
}

// Load builds settings from defaults, the YAML file at path (skipped when
// path is empty), and the environment.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &s); err != nil {
			return Settings{}, err
		}
	}

	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func decodeYAML(data []byte, s *Settings) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Validate checks enumerated fields and required values.
func (s Settings) Validate() error {
	if !slices.Contains(validBackends, s.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %v", s.Backend, validBackends)
	}
	if !slices.Contains(validMedia, s.Medium) {
		return fmt.Errorf("invalid medium %q: must be one of %v", s.Medium, validMedia)
	}
	if !slices.Contains(validDrivers, s.Driver) {
		return fmt.Errorf("invalid driver %q: must be one of %v", s.Driver, validDrivers)
	}
	if s.DataDir == "" && s.Medium != MediumMemory {
		return fmt.Errorf("data_dir is required")
	}
	if s.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}
	if s.Library.DefaultSize <= 0 {
		return fmt.Errorf("library.default_size must be positive, got %d", s.Library.DefaultSize)
	}
	if _, err := icon.ParseAnimationType(s.Library.DefaultAnimation); err != nil {
		return fmt.Errorf("library.default_animation: %w", err)
	}
	return nil
}

// LibraryPatch converts the library settings into a library.Patch.
func (s Settings) LibraryPatch() (library.Patch, error) {
	typ, err := icon.ParseAnimationType(s.Library.DefaultAnimation)
	if err != nil {
		return library.Patch{}, fmt.Errorf("library.default_animation: %w", err)
	}
	anim, _ := icon.AnimationDefaults(typ)

	return library.Patch{
		BaseURL:           library.Ptr(s.Library.BaseURL),
		DefaultAnimation:  &anim,
		DefaultSize:       library.Ptr(s.Library.DefaultSize),
		DefaultColor:      library.Ptr(s.Library.DefaultColor),
		EnableOfflineMode: library.Ptr(s.Library.EnableOfflineMode),
	}, nil
}
