package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "ANIMEVERSE_DATA_DIR"

// Config holds all AnimeVerse configuration.
type Config struct {
	// DataDir is where the database, album, log and config file live.
	DataDir string `yaml:"data_dir"`

	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Pomodoro PomodoroConfig `yaml:"pomodoro"`
	Notes    NotesConfig    `yaml:"notes"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig selects the KV backend for the anime collections.
type StorageConfig struct {
	Driver string `yaml:"driver"` // duckdb, sqlite, memory
	Path   string `yaml:"path"`
}

// SearchConfig configures the remote anime catalogs.
type SearchConfig struct {
	Provider   string `yaml:"provider"` // jikan, anilist, all
	Debounce   string `yaml:"debounce"`
	Timeout    string `yaml:"timeout"`
	JikanURL   string `yaml:"jikan_url"`
	AniListURL string `yaml:"anilist_url"`
}

type PomodoroConfig struct {
	Work  string `yaml:"work"`
	Break string `yaml:"break"`
	Loop  bool   `yaml:"loop"`
}

type NotesConfig struct {
	// DateLayout is a Go time layout.
	DateLayout string `yaml:"date_layout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "duckdb",
			Path:   "animeverse.db",
		},
		Search: SearchConfig{
			Provider:   "jikan",
			Debounce:   "500ms",
			Timeout:    "10s",
			JikanURL:   "https://api.jikan.moe/v4",
			AniListURL: "https://graphql.anilist.co",
		},
		Pomodoro: PomodoroConfig{
			Work:  "60m",
			Break: "25m",
			Loop:  true,
		},
		Notes: NotesConfig{
			DateLayout: "02/01/2006",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "animeverse.log",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var (
	ValidDrivers   = []string{"duckdb", "sqlite", "memory"}
	ValidProviders = []string{"jikan", "anilist", "all"}
)

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if !contains(ValidDrivers, c.Storage.Driver) {
		return fmt.Errorf("invalid storage driver %q (want one of %s)", c.Storage.Driver, strings.Join(ValidDrivers, ", "))
	}
	if !contains(ValidProviders, c.Search.Provider) {
		return fmt.Errorf("invalid search provider %q (want one of %s)", c.Search.Provider, strings.Join(ValidProviders, ", "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ResolveDataDir returns the directory AnimeVerse keeps its data in.
// Order: explicit DataDir, ANIMEVERSE_DATA_DIR, then ~/.animeverse.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDataDir()
}

// DefaultDataDir resolves the data directory ignoring any config file.
func DefaultDataDir() (string, error) {
	if custom := os.Getenv(DataDirEnv); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.New("home directory not found")
	}
	return filepath.Join(home, ".animeverse"), nil
}

// Resolve joins p onto the data directory unless it is already absolute.
func (c *Config) Resolve(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}

// GetDebounce returns the search debounce delay.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// GetTimeout returns the HTTP timeout for catalog requests.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Search.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (c *Config) GetWork() time.Duration {
	d, err := time.ParseDuration(c.Pomodoro.Work)
	if err != nil || d <= 0 {
		return 60 * time.Minute
	}
	return d
}

func (c *Config) GetBreak() time.Duration {
	d, err := time.ParseDuration(c.Pomodoro.Break)
	if err != nil || d <= 0 {
		return 25 * time.Minute
	}
	return d
}
