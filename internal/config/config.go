package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets from the config file
const (
	EnvMQTTPassword = "POWERSCHEDULER_MQTT_PASSWORD"
	EnvHAToken      = "POWERSCHEDULER_HA_TOKEN"
)

// Source kinds
const (
	SourceCSV       = "csv"
	SourceSynthetic = "synthetic"
	SourceDB        = "db"
)

// Config holds the application configuration
type Config struct {
	Source        string          `yaml:"source,omitempty"`       // csv, synthetic or db (default: csv)
	CSVPath       string          `yaml:"csv_path,omitempty"`     // default: data/energy_data.csv
	Synthetic     SyntheticConfig `yaml:"synthetic,omitempty"`
	PreviewRows   int             `yaml:"preview_rows,omitempty"` // rows shown without --full (default: 20)
	LogLevel      string          `yaml:"log_level,omitempty"`
	MQTT          MQTTConfig      `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig        `yaml:"home_assistant,omitempty"`
}

// SyntheticConfig controls the seeded reading generator
type SyntheticConfig struct {
	Seed  uint64 `yaml:"seed"`
	Start string `yaml:"start,omitempty"` // YYYY-MM-DD, default 2025-10-01
	Hours int    `yaml:"hours,omitempty"` // default 168
}

// MQTTConfig holds MQTT broker settings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: power_scheduler
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.best_power_hour"
}

// Load reads the config file, then applies overrides from .env and the environment
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// .env is optional; variables already set in the environment are not replaced
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv(EnvHAToken); v != "" {
		c.HomeAssistant.Token = v
	}
}

// Validate checks values that can't be defaulted
func (c *Config) Validate() error {
	switch c.GetSource() {
	case SourceCSV, SourceSynthetic, SourceDB:
	default:
		return fmt.Errorf("unknown source %q (available: csv, synthetic, db)", c.Source)
	}
	if _, err := c.GetSyntheticStart(); err != nil {
		return err
	}
	return nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetSource returns the configured reading source, defaulting to csv
func (c *Config) GetSource() string {
	if c.Source == "" {
		return SourceCSV
	}
	return c.Source
}

// GetCSVPath returns the CSV input path
func (c *Config) GetCSVPath() string {
	if c.CSVPath == "" {
		return filepath.Join("data", "energy_data.csv")
	}
	return c.CSVPath
}

// GetPreviewRows returns how many series rows to show by default
func (c *Config) GetPreviewRows() int {
	if c.PreviewRows <= 0 {
		return 20
	}
	return c.PreviewRows
}

// GetLogLevel returns the log level name
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetSyntheticStart returns the first generated hour, or the zero time to use the generator default
func (c *Config) GetSyntheticStart() (time.Time, error) {
	if c.Synthetic.Start == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Synthetic.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid synthetic.start %q (use YYYY-MM-DD): %w", c.Synthetic.Start, err)
	}
	return t, nil
}

// GetTopicPrefix returns the MQTT topic prefix
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "power_scheduler"
	}
	return c.TopicPrefix
}
