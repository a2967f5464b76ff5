package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/gitchanges/internal/config"
	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Print the aggregated changelog structure as YAML or JSON",
	Long: `Print the structure a template is rendered with: versions newest first, each
with its date and change types, each change type with its changes.

In multi-project mode the output maps every project to its structure.
Useful for writing templates and for feeding other tools.`,
	Example: `  # YAML structure of the current repository
  gitchanges structure

  # JSON for scripts
  gitchanges structure --format json | jq '.versions[0].version'`,
	Args: cobra.NoArgs,
	RunE: runStructure,
}

func init() {
	structureCmd.GroupID = GroupChangelog
	addSourceFlags(structureCmd)
	structureCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unknown format %q", format),
			"gitchanges structure --format yaml|json",
		)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	value, err := buildStructure(cfg, newLogger(cmd.ErrOrStderr(), verbose), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return encodeStructure(cmd.OutOrStdout(), format, value)
}

// buildStructure returns the document, or the documents keyed by project in
// multi-project mode.
func buildStructure(cfg *config.Configuration, logger *slog.Logger, errOut io.Writer) (any, error) {
	p, err := newPipeline(cfg, logger, errOut)
	if err != nil {
		return nil, err
	}

	if cfg.MultiProject {
		docs, err := p.generator.StructureByProject(p.sources...)
		if err != nil {
			return nil, clierrors.SourceFailed(err)
		}
		logger.Debug("built structure", "projects", len(docs))
		return docs, nil
	}

	doc, err := p.generator.Structure(p.sources...)
	if err != nil {
		return nil, clierrors.SourceFailed(err)
	}
	logger.Debug("built structure", "versions", len(doc.Versions))
	return doc, nil
}

func encodeStructure(w io.Writer, format string, value any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}
