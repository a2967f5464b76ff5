package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
	"github.com/ariel-frischer/gitchanges/internal/generator"
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"p"},
	Short:   "Show the changelog in the terminal without writing it (p)",
	Long: `Show the aggregated changelog in the terminal with colored change type headings.
Nothing is written to disk. Use --plain for output without colors or icons.`,
	Example: `  # Preview the changelog
  gitchanges preview

  # Preview the last releases of a file-only changelog
  gitchanges preview --repo "" --file-source changes.txt --min-version 3.0

  # Plain output for piping
  gitchanges preview --plain`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.GroupID = GroupChangelog
	addSourceFlags(previewCmd)
	previewCmd.Flags().Bool("plain", false, "Plain output without colors or icons")
	previewCmd.Flags().Int("width", 0, "Wrap entries at this width (default: terminal width)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	plain, _ := cmd.Flags().GetBool("plain")
	width, _ := cmd.Flags().GetInt("width")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	value, err := buildStructure(cfg, newLogger(cmd.ErrOrStderr(), verbose), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := changelog.FormatOptions{Plain: plain || color.NoColor, MaxWidth: width}
	return previewStructure(cmd.OutOrStdout(), value, opts)
}

func previewStructure(w io.Writer, value any, opts changelog.FormatOptions) error {
	switch v := value.(type) {
	case *changelog.Document:
		if v.IsEmpty() {
			fmt.Fprintln(w, "No changes found.")
			return nil
		}
		return changelog.FormatTerminal(v, w, opts)

	case generator.ProjectDocuments:
		if len(v) == 0 {
			fmt.Fprintln(w, "No changes found.")
			return nil
		}
		for i, project := range v.Projects() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n\n", project)
			if err := changelog.FormatTerminal(v[project], w, opts); err != nil {
				return err
			}
		}
		return nil
	}

	return clierrors.NewRuntimeError(fmt.Sprintf("unexpected structure %T", value))
}
