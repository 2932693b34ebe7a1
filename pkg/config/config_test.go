package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, "log", config.Engine)
	assert.True(t, config.SyncWrites)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Empty(t, config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			DataDir:    "/custom/data",
			Engine:     "pebble",
			SyncWrites: false,
			Port:       9000,
			Bind:       "0.0.0.0",
			Security:   Security{APIKey: "test-api-key"},
			Logging:    Logging{Level: "debug", Format: "json"},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("engine: sqlite\nport: 9100\n"), 0600))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", loaded.Engine)
		assert.Equal(t, 9100, loaded.Port)
		assert.Equal(t, "./data", loaded.DataDir)
		assert.Equal(t, "info", loaded.Logging.Level)
	})

	t.Run("non-existent file", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.ErrorContains(t, err, "config file does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("port: [not, a, number"), 0600))

		_, err := LoadConfig(configPath)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("invalid engine", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "engine.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("engine: cassandra\n"), 0600))

		_, err := LoadConfig(configPath)
		assert.ErrorContains(t, err, "invalid engine")
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory engine needs no data dir", func(c *Config) { c.Engine = "memory"; c.DataDir = "" }, ""},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, "data_dir is required"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "invalid logging level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid logging format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")
	config := DefaultConfig()
	config.Security.APIKey = "secret"

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "log", raw["engine"])
	assert.Contains(t, raw, "security")
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config, err := BootstrapConfig(configPath, "/srv/events")
	require.NoError(t, err)
	assert.Equal(t, "/srv/events", config.DataDir)
	assert.Len(t, config.Security.APIKey, 64)
	assert.True(t, ConfigExists(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.False(t, ConfigExists(filepath.Join(t.TempDir(), "nope.yaml")))
}
