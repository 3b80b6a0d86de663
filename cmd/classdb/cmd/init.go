/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/classdb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with default settings.

The file goes to --config, or ~/.config/classdb/config.yaml when that flag is
not set. An existing file is left alone unless --force is given.

Examples:
  classdb init
  classdb init --data-dir ./data --generate-password
  classdb init --config ./classdb.yaml --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		generate, _ := cmd.Flags().GetBool("generate-password")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir, generate)
		if err != nil {
			return err
		}

		cmd.Printf("✅ Configuration written to %s\n", configPath)
		if cfg.DataDir != "" {
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
		}
		if generate {
			cmd.Printf("Generated password: %s\n", cfg.Security.Password)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("generate-password", false, "Replace the default password with a random one")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
