package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort       = 8080
	DefaultDataPath       = "data/integrity.json"
	DefaultTickInterval   = 3 * time.Second
	DefaultAdvisorMode    = "mock"
	DefaultAdvisorTimeout = 15 * time.Second
)

// Config holds the full server configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Sim     SimConfig     `yaml:"sim"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and metrics
	// endpoint listen on (default 8080).
	HTTPPort int `yaml:"http_port"`
}

// DataConfig locates the seed dataset.
type DataConfig struct {
	// Path is the JSON file holding the initial snapshot.
	Path string `yaml:"path"`
}

// SimConfig controls the live data simulator.
type SimConfig struct {
	// Interval is the tick period (default 3s).
	Interval time.Duration `yaml:"interval"`

	// Seed seeds the simulator's random source. Zero seeds from the
	// clock; fix it for reproducible runs.
	Seed int64 `yaml:"seed"`
}

// AdvisorConfig configures the AI advisory collaborator.
type AdvisorConfig struct {
	// Mode is one of: mock | http.
	Mode string `yaml:"mode"`

	// Endpoint is the advisory service URL. Required when Mode == "http".
	Endpoint string `yaml:"endpoint"`

	// KeyEnv is the name of the environment variable that holds the API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header the key is sent in. Defaults to "x-api-key".
	Header string `yaml:"header"`

	// Timeout bounds one advisory request (default 15s).
	Timeout time.Duration `yaml:"timeout"`
}

// Key returns the advisor API key resolved from the environment.
func (a AdvisorConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AdvisorConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// Load reads and parses the config file at path. Missing fields are
// filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{HTTPPort: DefaultHTTPPort},
		Data:   DataConfig{Path: DefaultDataPath},
		Sim:    SimConfig{Interval: DefaultTickInterval},
		Advisor: AdvisorConfig{
			Mode:    DefaultAdvisorMode,
			Timeout: DefaultAdvisorTimeout,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if cfg.Sim.Interval <= 0 {
		return fmt.Errorf("sim.interval must be positive")
	}
	switch cfg.Advisor.Mode {
	case "mock", "http":
	default:
		return fmt.Errorf("advisor.mode %q unknown: want mock|http", cfg.Advisor.Mode)
	}
	if cfg.Advisor.Mode == "http" && cfg.Advisor.Endpoint == "" {
		return fmt.Errorf("advisor.endpoint is required when advisor.mode is http")
	}
	if cfg.Advisor.Timeout < 0 {
		return fmt.Errorf("advisor.timeout must not be negative")
	}
	return nil
}

// Watch re-reads the file at path whenever it changes on disk and hands
// each successfully parsed Config to apply. A file that fails to parse or
// validate is logged and skipped; the running config stays in effect.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, apply func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates carry new content. Editors that save
			// atomically rename a temp file over ours, which surfaces as
			// a create on a fresh inode.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			next, err := Load(path)
			if err != nil {
				slog.Error("config: reload rejected", "path", path, "err", err)
				continue
			}
			apply(next)
			slog.Info("config: reloaded", "path", path)

			// The rename above invalidates the old watch.
			watcher.Add(path) //nolint:errcheck

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config: watcher error", "err", err)
		}
	}
}
