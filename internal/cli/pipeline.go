package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitchanges/internal/config"
	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
	"github.com/ariel-frischer/gitchanges/internal/generator"
	"github.com/ariel-frischer/gitchanges/internal/git"
	"github.com/ariel-frischer/gitchanges/internal/source"
)

// addSourceFlags registers the flags shared by every command that reads changes.
func addSourceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("repo", "", "Directory inside the git repository; \"\" reads file sources only (default: .)")
	flags.StringSlice("file-source", nil, "Delimited change file read after the history (repeatable)")
	flags.String("override-source", "", "Delimited file of commit overrides")
	flags.String("min-version", "", "Drop changes older than this version")
	flags.StringSlice("exclude", nil, "Change type to leave out, ignoring case (repeatable)")
	flags.String("template", "", "Mustache template (default: built-in Keep a Changelog)")
	flags.Bool("multi-project", false, "Generate one changelog per project")
	flags.String("delimiter", "", "Column delimiter of file sources (default: |)")
}

// loadConfig loads the layered configuration and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, clierrors.ConfigLoadError(err)
	}
	if err := applySourceFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySourceFlags overrides cfg with the flags the user set.
func applySourceFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	flags := cmd.Flags()

	if flags.Changed("repo") {
		cfg.Repository.Path, _ = flags.GetString("repo")
	}
	if flags.Changed("file-source") {
		cfg.FileSources, _ = flags.GetStringSlice("file-source")
	}
	if flags.Changed("override-source") {
		cfg.OverrideSource, _ = flags.GetString("override-source")
	}
	if flags.Changed("min-version") {
		cfg.MinVersion, _ = flags.GetString("min-version")
	}
	if flags.Changed("exclude") {
		cfg.ExcludeChangeTypes, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("template") {
		cfg.Template, _ = flags.GetString("template")
	}
	if flags.Changed("multi-project") {
		cfg.MultiProject, _ = flags.GetBool("multi-project")
	}
	if flags.Changed("delimiter") {
		delimiter, _ := flags.GetString("delimiter")
		if utf8.RuneCountInString(delimiter) != 1 {
			return clierrors.InvalidDelimiter(delimiter)
		}
		cfg.Delimiter = delimiter
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	return nil
}

// pipeline holds the sources and generator of one generation pass.
type pipeline struct {
	sources   []source.Source
	generator *generator.Generator
}

// newPipeline opens every configured source. Malformed rows of file sources
// are reported to errOut.
func newPipeline(cfg *config.Configuration, logger *slog.Logger, errOut io.Writer) (*pipeline, error) {
	parser := source.RowParser{
		Layout:    source.RowLayout{Project: cfg.MultiProject},
		Delimiter: cfg.DelimiterRune(),
		Errors:    errOut,
	}

	p := &pipeline{}

	if cfg.Repository.Path != "" {
		overrides, err := source.BuildOverrides(cfg.OverrideSource, parser, cfg.Repository.Overrides)
		if err != nil {
			return nil, clierrors.SourceFailed(err)
		}

		repo, err := git.Open(cfg.Repository.Path, logger)
		if err != nil {
			return nil, clierrors.NotARepository(cfg.Repository.Path, err)
		}
		p.sources = append(p.sources, source.GitSource{
			Repository:   repo,
			Rules:        cfg.Parsing,
			Overrides:    overrides,
			MultiProject: cfg.MultiProject,
			Logger:       logger,
		})
	}

	for _, path := range cfg.FileSources {
		p.sources = append(p.sources, source.FileSource{Path: path, Parser: parser})
	}

	tmpl, err := readTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(generator.Options{
		MinVersion:         cfg.MinVersion,
		ExcludeChangeTypes: cfg.ExcludeChangeTypes,
		Template:           tmpl,
		Logger:             logger,
	})
	if err != nil {
		return nil, clierrors.InvalidMinVersion(err)
	}
	p.generator = gen

	logger.Debug("pipeline ready", "sources", len(p.sources), "multi_project", cfg.MultiProject)
	return p, nil
}

// readTemplate returns the template text at path, or "" for the built-in template.
func readTemplate(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", clierrors.TemplateNotFound(path, err)
	}
	if len(data) == 0 {
		return "", clierrors.TemplateError(fmt.Errorf("template %s is empty", path))
	}
	return string(data), nil
}
