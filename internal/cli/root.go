// Package cli implements the gitchanges command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
)

// Command groups shown in help output.
const (
	GroupChangelog = "changelog"
	GroupSetup     = "setup"
)

var (
	cfgPath    string
	verbose    bool
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "gitchanges",
	Short: "Generate changelogs from git history and change files",
	Long: `gitchanges builds a changelog from the commit history of a git repository
and from delimited change files.

Commit messages carry their metadata through configurable patterns, for example:

  Add export button

  type: Added
  reference: GH-42

Commits without an explicit version inherit the closest newer version found in
history, so tagging a release commit labels every change since the previous one.
Changes are grouped by version and change type and rendered with a mustache
template (Keep a Changelog by default).`,
	Example: `  # Write CHANGELOG.md from the current repository
  gitchanges

  # Print the changelog instead of writing it
  gitchanges -o -

  # Only changes since 2.0, without chores
  gitchanges --min-version 2.0 --exclude chore

  # Combine git history with a hand-written change file
  gitchanges --file-source legacy-changes.txt

  # Regenerate whenever history or sources change
  gitchanges --watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runGenerate,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupSetup)
	rootCmd.SetCompletionCommandGroupID(GroupSetup)

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Project config file (default: .gitchanges.yml in the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log parsing decisions to stderr")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable the progress spinner")

	addSourceFlags(rootCmd)
	rootCmd.Flags().StringP("output", "o", "", "Output file, or - for stdout (default: CHANGELOG.md)")
	rootCmd.Flags().BoolP("watch", "w", false, "Regenerate when history, sources, config or template change")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.NewArgumentError(err.Error(), "Use 'gitchanges --help' to see valid options")
	})
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printCommandError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printCommandError prints CLIErrors with their remediation and anything else as a plain line.
func printCommandError(w io.Writer, err error) {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// newLogger returns the diagnostic logger. Debug records are kept only with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
