/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/eventstore/pkg/storage"
)

// Config represents the event store configuration
type Config struct {
	DataDir    string   `yaml:"data_dir"`
	Engine     string   `yaml:"engine"`
	SyncWrites bool     `yaml:"sync_writes"`
	Port       int      `yaml:"port"`
	Bind       string   `yaml:"bind"`
	Security   Security `yaml:"security"`
	Logging    Logging  `yaml:"logging"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var (
	validLevels    = []string{"debug", "info", "warn", "error"}
	validLogFormat = []string{"text", "json"}
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:    "./data",
		Engine:     "log",
		SyncWrites: true,
		Port:       8080,
		Bind:       "127.0.0.1",
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks enumerated fields and ranges
func (c *Config) Validate() error {
	if c.DataDir == "" && c.Engine != storage.DriverMemory {
		return fmt.Errorf("data_dir is required for engine %q", c.Engine)
	}
	if !slices.Contains(storage.Drivers, c.Engine) {
		return fmt.Errorf("invalid engine %q (want one of %v)", c.Engine, storage.Drivers)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level %q (want one of %v)", c.Logging.Level, validLevels)
	}
	if !slices.Contains(validLogFormat, c.Logging.Format) {
		return fmt.Errorf("invalid logging format %q (want one of %v)", c.Logging.Format, validLogFormat)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file carries the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a freshly generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./eventstore.yaml"
	}
	return filepath.Join(homeDir, ".config", "eventstore", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
