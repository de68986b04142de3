package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/fsefeed/internal/fse"
)

// AccessKeyEnv overrides access_key from the config file when set.
const AccessKeyEnv = "FSEFEED_ACCESS_KEY"

// Config holds everything fsefeed reads from config.toml.
type Config struct {
	AccessKey        string
	BaseURL          string
	Timeout          time.Duration
	FetchConcurrency int
	ValidateTypes    bool
	Log              LogConfig
	Aircraft         AircraftDefaults
	Assignments      AssignmentDefaults
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string
	Format string
}

// AircraftDefaults seed the planes and browse commands when flags are not given.
type AircraftDefaults struct {
	MaxHoursSinceService float64
	RentableOnly         bool
}

// AssignmentDefaults seed the jobs command when flags are not given.
type AssignmentDefaults struct {
	MaxCargoKg int
	MaxPax     int
}

const (
	defaultConfigPath       = "~/.config/fsefeed/config.toml"
	defaultTimeout          = 30 * time.Second
	defaultFetchConcurrency = 1
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
	defaultMaxHours         = 95
	defaultMaxCargoKg       = 100000
	defaultMaxPax           = 1000
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:          fse.DefaultBaseURL,
		Timeout:          defaultTimeout,
		FetchConcurrency: defaultFetchConcurrency,
		Log:              LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Aircraft:         AircraftDefaults{MaxHoursSinceService: defaultMaxHours, RentableOnly: true},
		Assignments:      AssignmentDefaults{MaxCargoKg: defaultMaxCargoKg, MaxPax: defaultMaxPax},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

type rawConfig struct {
	AccessKey        string   `toml:"access_key"`
	BaseURL          string   `toml:"base_url"`
	TimeoutSeconds   *float64 `toml:"timeout_seconds"`
	FetchConcurrency *int     `toml:"fetch_concurrency"`
	ValidateTypes    bool     `toml:"validate_types"`
	Log              struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Aircraft struct {
		MaxHoursSinceService *float64 `toml:"max_hours_since_service"`
		RentableOnly         *bool    `toml:"rentable_only"`
	} `toml:"aircraft"`
	Assignments struct {
		MaxCargoKg *int `toml:"max_cargo_kg"`
		MaxPax     *int `toml:"max_pax"`
	} `toml:"assignments"`
}

// Load reads the config file, falling back to defaults when it is missing.
// The access key from AccessKeyEnv wins over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		applyEnv(&cfg)
		return cfg, nil
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.AccessKey = strings.TrimSpace(raw.AccessKey)
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if raw.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*raw.TimeoutSeconds * float64(time.Second))
	}
	if raw.FetchConcurrency != nil {
		cfg.FetchConcurrency = *raw.FetchConcurrency
	}
	cfg.ValidateTypes = raw.ValidateTypes
	if v := strings.ToLower(strings.TrimSpace(raw.Log.Level)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Log.Format)); v != "" {
		cfg.Log.Format = v
	}
	if raw.Aircraft.MaxHoursSinceService != nil {
		cfg.Aircraft.MaxHoursSinceService = *raw.Aircraft.MaxHoursSinceService
	}
	if raw.Aircraft.RentableOnly != nil {
		cfg.Aircraft.RentableOnly = *raw.Aircraft.RentableOnly
	}
	if raw.Assignments.MaxCargoKg != nil {
		cfg.Assignments.MaxCargoKg = *raw.Assignments.MaxCargoKg
	}
	if raw.Assignments.MaxPax != nil {
		cfg.Assignments.MaxPax = *raw.Assignments.MaxPax
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with. A missing access key is
// not an error here; commands that reach the feed check it themselves.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be at least 1")
	}
	if c.Aircraft.MaxHoursSinceService < 0 {
		return fmt.Errorf("aircraft.max_hours_since_service must not be negative")
	}
	if c.Assignments.MaxCargoKg < 0 {
		return fmt.Errorf("assignments.max_cargo_kg must not be negative")
	}
	if c.Assignments.MaxPax < 0 {
		return fmt.Errorf("assignments.max_pax must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(AccessKeyEnv)); v != "" {
		cfg.AccessKey = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
