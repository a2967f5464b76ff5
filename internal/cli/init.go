package cli

import (
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitchanges/internal/config"
	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
	"github.com/ariel-frischer/gitchanges/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config to .gitchanges.yml",
	Long: `Write a commented configuration file listing every option with its default.

The file is written to .gitchanges.yml in the current directory, or to the path
given with --config. An existing file is only replaced with --force.`,
	Example: `  # Create .gitchanges.yml
  gitchanges init

  # Replace an existing config
  gitchanges init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.GroupID = GroupSetup
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := cfgPath
	if path == "" {
		path = config.ProjectConfigPath()
	}
	if err := writeDefaultConfig(path, force); err != nil {
		return err
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Config", "created at "+path)
	return nil
}

// writeDefaultConfig writes the commented config template to path.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return clierrors.ConfigExists(path)
	}
	if err := atomic.WriteFile(path, strings.NewReader(config.GetDefaultConfigTemplate())); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}
