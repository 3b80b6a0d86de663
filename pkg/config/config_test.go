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

	assert.Empty(t, config.DataDir)
	assert.Empty(t, config.Database)
	assert.Equal(t, "CMS", config.Prompt)
	assert.False(t, config.AssumeYes)
	assert.Equal(t, FormatTable, config.Output.Format)
	assert.True(t, config.Security.RequirePassword)
	assert.Equal(t, "password", config.Security.Password)
	assert.Equal(t, 3, config.Security.MaxAttempts)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "empty password",
			mutate:  func(c *Config) { c.Security.Password = "" },
			wantErr: "security.password",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Security.MaxAttempts = 0 },
			wantErr: "max_attempts",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid logging level",
		},
		{
			name: "password not required",
			mutate: func(c *Config) {
				c.Security.RequirePassword = false
				c.Security.Password = ""
			},
		},
		{
			name:   "logging off",
			mutate: func(c *Config) { c.Logging.Level = "off" },
		},
		{
			name:   "json output",
			mutate: func(c *Config) { c.Output.Format = FormatJSON },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64)

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
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			DataDir:   "/custom/data",
			Database:  "db.txt",
			Prompt:    "P4-1",
			AssumeYes: true,
			Output:    Output{Format: FormatJSON},
			Security: Security{
				RequirePassword: true,
				Password:        "s3cret",
				MaxAttempts:     5,
			},
			Logging: Logging{Level: "debug"},
			Metrics: Metrics{Textfile: "/var/lib/node_exporter/classdb.prom"},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("data_dir: /srv/classdb\n"), 0644))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/srv/classdb", loadedConfig.DataDir)
		assert.Equal(t, "CMS", loadedConfig.Prompt)
		assert.Equal(t, 3, loadedConfig.Security.MaxAttempts)
		assert.True(t, loadedConfig.Security.RequirePassword)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	config := DefaultConfig()

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		config, err := BootstrapConfig(configPath, "/custom/data/dir", false)
		require.NoError(t, err)

		assert.Equal(t, "/custom/data/dir", config.DataDir)
		assert.Equal(t, "password", config.Security.Password)
		assert.True(t, ConfigExists(configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, config, loadedConfig)
	})

	t.Run("generated password", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		config, err := BootstrapConfig(configPath, "", true)
		require.NoError(t, err)

		assert.NotEqual(t, "password", config.Security.Password)
		assert.Len(t, config.Security.Password, 24)
		_, err = hex.DecodeString(config.Security.Password)
		assert.NoError(t, err)
	})
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "classdb")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	require.NoError(t, os.WriteFile(existingPath, []byte("test"), 0644))

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := DefaultConfig()
	config.DataDir = "/test/data"
	config.Output.Format = FormatJSON

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "require_password: true")

	var unmarshalled Config
	require.NoError(t, yaml.Unmarshal(data, &unmarshalled))
	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	invalidPath := filepath.Join(blocker, "sub", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
