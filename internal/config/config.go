// Package config resolves the runtime configuration: built-in defaults, then
// an optional YAML file, then FOCUSFLOW_* environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"

	envPrefix = "FOCUSFLOW_"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type RuntimeConfig struct {
	DataDir              string `yaml:"data_dir" mapstructure:"data_dir"`
	Backend              string `yaml:"backend" mapstructure:"backend"`
	StatePath            string `yaml:"state_path,omitempty" mapstructure:"state_path"`
	LogFormat            string `yaml:"log_format" mapstructure:"log_format"`
	LogLevel             string `yaml:"log_level" mapstructure:"log_level"`
	DesktopNotifications bool   `yaml:"desktop_notifications" mapstructure:"desktop_notifications"`
	PollIntervalSeconds  int    `yaml:"poll_interval_seconds" mapstructure:"poll_interval_seconds"`
	ReminderLeadMinutes  int    `yaml:"reminder_lead_minutes" mapstructure:"reminder_lead_minutes"`
	ReminderGraceMinutes int    `yaml:"reminder_grace_minutes" mapstructure:"reminder_grace_minutes"`
	EventBuffer          int    `yaml:"event_buffer" mapstructure:"event_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:              DefaultDataDir(),
		Backend:              BackendSQLite,
		LogFormat:            "text",
		LogLevel:             "info",
		DesktopNotifications: true,
		PollIntervalSeconds:  60,
		ReminderLeadMinutes:  5,
		ReminderGraceMinutes: 10,
		EventBuffer:          16,
	}
}

// DefaultDataDir is ~/.focusflow, or .focusflow when there is no home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".focusflow"
	}
	return filepath.Join(home, ".focusflow")
}

// DefaultConfigPath is config.yaml inside the default data directory.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// ResolvedStatePath is StatePath when set, otherwise the backend's default
// file inside DataDir.
func (c RuntimeConfig) ResolvedStatePath() string {
	if p := strings.TrimSpace(c.StatePath); p != "" {
		return p
	}
	if c.Backend == BackendFile {
		return filepath.Join(c.DataDir, "state.json")
	}
	return filepath.Join(c.DataDir, "focusflow.db")
}

// LogPath is where the TUI writes its logs.
func (c RuntimeConfig) LogPath() string {
	return filepath.Join(c.DataDir, "focusflow.log")
}

func (c RuntimeConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c RuntimeConfig) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

func (c RuntimeConfig) ReminderGrace() time.Duration {
	return time.Duration(c.ReminderGraceMinutes) * time.Minute
}

func (c RuntimeConfig) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("%w: backend %q (want %s or %s)", ErrInvalidConfig, c.Backend, BackendSQLite, BackendFile)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.ReminderLeadMinutes < 0 || c.ReminderGraceMinutes < 0 {
		return fmt.Errorf("%w: reminder window must not be negative", ErrInvalidConfig)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("%w: event_buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

// Load layers the file at path (skipped when missing) and the environment
// over the defaults.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := LoadFile(path, DefaultRuntimeConfig())
	if err != nil {
		return cfg, err
	}
	return RuntimeConfigFromEnv(cfg), nil
}

// LoadFile overlays the YAML file at path on base. Keys absent from the file
// keep their base value; a missing file returns base unchanged.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg to w as YAML.
func Encode(w io.Writer, cfg RuntimeConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// WriteFile stores cfg as YAML at path, creating parent directories.
func WriteFile(path string, cfg RuntimeConfig) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	data := buf.Bytes()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("STATE_PATH"); ok {
		cfg.StatePath = v
	}
	if v, ok := getEnvString("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnvString("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("POLL_INTERVAL_SECONDS"); ok && v > 0 {
		cfg.PollIntervalSeconds = v
	}
	if v, ok := getEnvInt("REMINDER_LEAD_MINUTES"); ok && v >= 0 {
		cfg.ReminderLeadMinutes = v
	}
	if v, ok := getEnvInt("REMINDER_GRACE_MINUTES"); ok && v >= 0 {
		cfg.ReminderGraceMinutes = v
	}
	if v, ok := getEnvInt("EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(envPrefix + name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
