package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.GetSource())
	assert.Equal(t, filepath.Join("data", "energy_data.csv"), cfg.GetCSVPath())
	assert.Equal(t, 20, cfg.GetPreviewRows())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, "power_scheduler", cfg.MQTT.GetTopicPrefix())

	start, err := cfg.GetSyntheticStart()
	require.NoError(t, err)
	assert.True(t, start.IsZero())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: synthetic
preview_rows: 5
synthetic:
  seed: 42
  start: "2024-02-27"
  hours: 96
mqtt:
  enabled: true
  broker: localhost:1883
  password: from-file
home_assistant:
  enabled: true
  url: http://ha.local:8123
  token: from-file
  entity_id: sensor.best_power_hour
`), 0600))

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, SourceSynthetic, cfg.GetSource())
		assert.Equal(t, 5, cfg.GetPreviewRows())
		assert.Equal(t, uint64(42), cfg.Synthetic.Seed)
		assert.Equal(t, 96, cfg.Synthetic.Hours)
		assert.Equal(t, "from-file", cfg.MQTT.Password)
		assert.Equal(t, "sensor.best_power_hour", cfg.HomeAssistant.EntityID)

		start, err := cfg.GetSyntheticStart()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("environment overrides secrets", func(t *testing.T) {
		t.Setenv(EnvMQTTPassword, "from-env")
		t.Setenv(EnvHAToken, "token-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.MQTT.Password)
		assert.Equal(t, "token-env", cfg.HomeAssistant.Token)
	})

	t.Run("dotenv next to the config", func(t *testing.T) {
		t.Setenv(EnvHAToken, "")
		os.Unsetenv(EnvHAToken)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvHAToken+"=token-dotenv\n"), 0600))
		t.Cleanup(func() {
			os.Unsetenv(EnvHAToken)
		})

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "token-dotenv", cfg.HomeAssistant.Token)
	})
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"unknown source": "source: s3\n",
		"bad start":      "synthetic:\n  start: 10/01/2025\n",
		"bad yaml":       "source: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{Source: SourceDB, Synthetic: SyntheticConfig{Seed: 7}}

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceDB, loaded.GetSource())
	assert.Equal(t, uint64(7), loaded.Synthetic.Seed)
}
