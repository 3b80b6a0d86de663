/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssargent/classdb/pkg/config"
	"github.com/ssargent/classdb/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classdb",
	Short: "Class Management System",
	Long: `classdb keeps a table of student records (ID, Name, Programme, Mark)
and edits it through an interactive command shell.

Records are loaded from and saved to a tab-separated database file, and can
be exported as CSV, SQL, SQLite or a pebble archive.

Examples:
  classdb
  classdb --open P1_1-CMS.txt --data-dir ./data
  classdb --format json --yes`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("password")

		return runSession(cmd, cfg, di.SessionOptions{Interactive: true, Password: password}, cmd.InOrStdin())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to the configuration file (default ~/.config/classdb/config.yaml)")
	flags.StringP("data-dir", "d", "", "Directory for bare file names (default: the executable's directory)")
	flags.String("open", "", "Database file to open at startup")
	flags.BoolP("yes", "y", false, "Delete without asking for confirmation")
	flags.String("format", "", "Record output format: table or json")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error or off")
	flags.String("password", "", "Answer the password prompt non-interactively")
}

// resolveConfig loads the config file when there is one and applies the
// flags that were set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if explicit || config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("open") {
		cfg.Database, _ = flags.GetString("open")
	}
	if flags.Changed("yes") {
		cfg.AssumeYes, _ = flags.GetBool("yes")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = executableDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// runSession runs a shell session over in and writes the metrics textfile
// afterwards when one is configured.
func runSession(cmd *cobra.Command, cfg *config.Config, opts di.SessionOptions, in io.Reader) error {
	if container == nil {
		return errors.New("dependency container not initialized")
	}

	opts.Out = cmd.OutOrStdout()
	session, err := container.NewSession(cfg, opts)
	if err != nil {
		return err
	}

	runErr := session.Run(cmd.Context(), in)

	if cfg.Metrics.Textfile != "" {
		if err := container.GetMetrics().WriteTextfile(cfg.Metrics.Textfile); err != nil {
			cmd.PrintErrf("Error writing metrics: %v\n", err)
		}
	}
	return runErr
}
