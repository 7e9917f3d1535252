package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
server:
  http_port: 9090
data:
  path: testdata/integrity.json
sim:
  interval: 5s
  seed: 42
advisor:
  mode: http
  endpoint: "https://advisor.example.com/v1/messages"
  key_env: ADVISOR_KEY
  timeout: 20s
`
	cfg := loadFromString(t, yaml)

	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("http_port: got %d", cfg.Server.HTTPPort)
	}
	if cfg.Data.Path != "testdata/integrity.json" {
		t.Errorf("data.path: got %q", cfg.Data.Path)
	}
	if cfg.Sim.Interval != 5*time.Second {
		t.Errorf("sim.interval: got %v", cfg.Sim.Interval)
	}
	if cfg.Sim.Seed != 42 {
		t.Errorf("sim.seed: got %d", cfg.Sim.Seed)
	}
	if cfg.Advisor.Mode != "http" {
		t.Errorf("advisor.mode: got %q", cfg.Advisor.Mode)
	}
	if cfg.Advisor.Timeout != 20*time.Second {
		t.Errorf("advisor.timeout: got %v", cfg.Advisor.Timeout)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "{}\n")

	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("default http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Data.Path != DefaultDataPath {
		t.Errorf("default data.path: got %q, want %q", cfg.Data.Path, DefaultDataPath)
	}
	if cfg.Sim.Interval != DefaultTickInterval {
		t.Errorf("default sim.interval: got %v, want %v", cfg.Sim.Interval, DefaultTickInterval)
	}
	if cfg.Advisor.Mode != DefaultAdvisorMode {
		t.Errorf("default advisor.mode: got %q, want %q", cfg.Advisor.Mode, DefaultAdvisorMode)
	}
	if cfg.Advisor.Timeout != DefaultAdvisorTimeout {
		t.Errorf("default advisor.timeout: got %v, want %v", cfg.Advisor.Timeout, DefaultAdvisorTimeout)
	}
}

func TestLoad_BadPort(t *testing.T) {
	_, err := loadStringErr(t, "server:\n  http_port: 70000\n")
	if err == nil {
		t.Fatal("expected error for out-of-range port, got nil")
	}
}

func TestLoad_UnknownAdvisorMode(t *testing.T) {
	_, err := loadStringErr(t, "advisor:\n  mode: oracle\n")
	if err == nil {
		t.Fatal("expected error for unknown advisor mode, got nil")
	}
}

func TestLoad_HTTPModeRequiresEndpoint(t *testing.T) {
	_, err := loadStringErr(t, "advisor:\n  mode: http\n")
	if err == nil {
		t.Fatal("expected error for http mode without endpoint, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestAdvisorConfig_Key(t *testing.T) {
	t.Setenv("TEST_ADVISOR_KEY", "supersecret")
	a := AdvisorConfig{KeyEnv: "TEST_ADVISOR_KEY"}
	if got := a.Key(); got != "supersecret" {
		t.Errorf("Key(): got %q, want %q", got, "supersecret")
	}
}

func TestAdvisorConfig_Key_Empty(t *testing.T) {
	a := AdvisorConfig{}
	if got := a.Key(); got != "" {
		t.Errorf("Key() with no KeyEnv: got %q, want empty", got)
	}
}

func TestAdvisorConfig_EffectiveHeader(t *testing.T) {
	if got := (AdvisorConfig{}).EffectiveHeader(); got != "x-api-key" {
		t.Errorf("default header: got %q", got)
	}
	if got := (AdvisorConfig{Header: "Authorization"}).EffectiveHeader(); got != "Authorization" {
		t.Errorf("custom header: got %q", got)
	}
}

func TestWatch_AppliesValidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	applied := make(chan *Config, 1)
	go func() {
		if err := Watch(ctx, path, func(c *Config) { applied <- c }); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	time.Sleep(50 * time.Millisecond) // let the watch attach

	if err := os.WriteFile(path, []byte("server:\n  http_port: 9191\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case c := <-applied:
		if c.Server.HTTPPort != 9191 {
			t.Errorf("reloaded http_port: got %d, want 9191", c.Server.HTTPPort)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload was not applied")
	}
}

func TestWatch_SkipsInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	applied := make(chan *Config, 1)
	go Watch(ctx, path, func(c *Config) { applied <- c }) //nolint:errcheck
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("server:\n  http_port: 0\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case c := <-applied:
		t.Errorf("invalid config was applied: port %d", c.Server.HTTPPort)
	case <-time.After(300 * time.Millisecond):
		// Rejected, as it should be.
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
