package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/classdb/pkg/config"
)

func TestInitCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "classdb", "config.yaml")
	dataDir := filepath.Join(tmpDir, "data")

	t.Run("writes configuration", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"init", "--config", configPath, "--data-dir", dataDir, "--generate-password"})
		require.NoError(t, rootCmd.Execute())

		cfg, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, dataDir, cfg.DataDir)
		assert.Len(t, cfg.Security.Password, 24)
		assert.Contains(t, out.String(), "Generated password: "+cfg.Security.Password)
	})

	t.Run("keeps existing configuration", func(t *testing.T) {
		before, err := os.ReadFile(configPath)
		require.NoError(t, err)

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"init", "--config", configPath})
		require.NoError(t, rootCmd.Execute())

		after, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Contains(t, out.String(), "Use --force to overwrite.")
	})
}
