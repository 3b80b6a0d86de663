/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/classdb/pkg/di"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute shell commands from a script file",
	Long: `Execute one shell command per line from a script file, without prompts.

Lines starting with # are comments. A DELETE reads its Y/N confirmation from
the next script line unless --yes is given. The script stops at EXIT or QUIT.

Examples:
  classdb run load.cms --password secret
  classdb run cleanup.cms --yes --open P1_1-CMS.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("password")

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}
		script, err := container.GetFs().Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer script.Close()

		return runSession(cmd, cfg, di.SessionOptions{Password: password}, script)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
