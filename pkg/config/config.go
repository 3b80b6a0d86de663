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

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config represents the classdb configuration
type Config struct {
	DataDir   string   `yaml:"data_dir"`
	Database  string   `yaml:"database"`
	Prompt    string   `yaml:"prompt"`
	AssumeYes bool     `yaml:"assume_yes"`
	Output    Output   `yaml:"output"`
	Security  Security `yaml:"security"`
	Logging   Logging  `yaml:"logging"`
	Metrics   Metrics  `yaml:"metrics"`
}

// Output controls how record listings are printed
type Output struct {
	Format string `yaml:"format"`
}

// Security contains the password gate settings
type Security struct {
	RequirePassword bool   `yaml:"require_password"`
	Password        string `yaml:"password"`
	MaxAttempts     int    `yaml:"max_attempts"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics contains metrics export configuration
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Prompt: "CMS",
		Output: Output{
			Format: FormatTable,
		},
		Security: Security{
			RequirePassword: true,
			Password:        "password",
			MaxAttempts:     3,
		},
		Logging: Logging{
			Level: "warn",
		},
	}
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("invalid output format %q: want %s or %s", c.Output.Format, FormatTable, FormatJSON)
	}

	if c.Security.RequirePassword {
		if c.Security.Password == "" {
			return fmt.Errorf("security.password must be set when require_password is true")
		}
		if c.Security.MaxAttempts < 1 {
			return fmt.Errorf("security.max_attempts must be at least 1, got %d", c.Security.MaxAttempts)
		}
	}

	if c.Logging.Level != "off" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
		}
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

	// The file may hold the password
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

// BootstrapConfig writes a new configuration to configPath. When
// generatePassword is set the default password is replaced by a random one.
func BootstrapConfig(configPath string, dataDir string, generatePassword bool) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	if generatePassword {
		password, err := GenerateSecureKey(12)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		config.Security.Password = password
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./classdb.yaml"
	}

	// ~/.config/classdb/config.yaml
	configDir := filepath.Join(homeDir, ".config", "classdb")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
