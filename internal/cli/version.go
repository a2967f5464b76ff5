package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitchanges/internal/build"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/gitchanges"

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, Go version and platform for gitchanges",
	Example: `  # Show version info
  gitchanges version

  # Only the version line (for scripts)
  gitchanges version --short`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		short, _ := cmd.Flags().GetBool("short")
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, build.Info())
		if short {
			return
		}
		for _, line := range build.Details() {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "source: %s\n", SourceURL)
	},
}

func init() {
	versionCmd.GroupID = GroupSetup
	versionCmd.Flags().Bool("short", false, "Print only the version line")
	rootCmd.AddCommand(versionCmd)
}
