package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Backend != BackendSQLite || cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PollInterval() != time.Minute || cfg.ReminderLead() != 5*time.Minute || cfg.ReminderGrace() != 10*time.Minute {
		t.Fatalf("unexpected watcher defaults: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.EventBuffer != 16 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("FOCUSFLOW_DATA_DIR", "/tmp/ff")
	t.Setenv("FOCUSFLOW_BACKEND", "FILE")
	t.Setenv("FOCUSFLOW_LOG_FORMAT", "json")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "debug")
	t.Setenv("FOCUSFLOW_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("FOCUSFLOW_POLL_INTERVAL_SECONDS", "15")
	t.Setenv("FOCUSFLOW_REMINDER_LEAD_MINUTES", "0")
	t.Setenv("FOCUSFLOW_REMINDER_GRACE_MINUTES", "3")
	t.Setenv("FOCUSFLOW_EVENT_BUFFER", "128")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DataDir != "/tmp/ff" || cfg.Backend != BackendFile {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != "debug" || cfg.DesktopNotifications {
		t.Fatalf("unexpected ambient config: %+v", cfg)
	}
	if cfg.PollIntervalSeconds != 15 || cfg.ReminderLeadMinutes != 0 || cfg.ReminderGraceMinutes != 3 || cfg.EventBuffer != 128 {
		t.Fatalf("unexpected watcher overrides: %+v", cfg)
	}
	if got := cfg.ResolvedStatePath(); got != filepath.Join("/tmp/ff", "state.json") {
		t.Fatalf("unexpected state path: %s", got)
	}
}

func TestRuntimeConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("FOCUSFLOW_POLL_INTERVAL_SECONDS", "soon")
	t.Setenv("FOCUSFLOW_EVENT_BUFFER", "-4")
	t.Setenv("FOCUSFLOW_DESKTOP_NOTIFICATIONS", "perhaps")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg != DefaultRuntimeConfig() {
		t.Fatalf("invalid env values must be ignored: %+v", cfg)
	}
}

func TestLoadFileOverlaysBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "backend: file\nreminder_lead_minutes: 2\nstate_path: /data/plan.json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	base := DefaultRuntimeConfig()
	cfg, err := LoadFile(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.ReminderLeadMinutes != 2 || cfg.ResolvedStatePath() != "/data/plan.json" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ReminderGraceMinutes != base.ReminderGraceMinutes || cfg.LogLevel != base.LogLevel {
		t.Fatalf("absent keys must keep base values: %+v", cfg)
	}
}

func TestLoadFileMissingReturnsBase(t *testing.T) {
	base := DefaultRuntimeConfig()
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), base)
	if err != nil || cfg != base {
		t.Fatalf("missing file must return base: %+v %v", cfg, err)
	}
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path, DefaultRuntimeConfig()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultRuntimeConfig()
	want.DataDir = "/srv/focusflow"
	want.EventBuffer = 32

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadFile(path, RuntimeConfig{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadAppliesEnvOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env must win over file, got %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*RuntimeConfig){
		"backend":  func(c *RuntimeConfig) { c.Backend = "postgres" },
		"data dir": func(c *RuntimeConfig) { c.DataDir = " " },
		"interval": func(c *RuntimeConfig) { c.PollIntervalSeconds = 0 },
		"window":   func(c *RuntimeConfig) { c.ReminderGraceMinutes = -1 },
		"buffer":   func(c *RuntimeConfig) { c.EventBuffer = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultRuntimeConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}
