package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/gitchanges/internal/config"
	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
	"github.com/ariel-frischer/gitchanges/internal/git"
	"github.com/ariel-frischer/gitchanges/internal/lifecycle"
	"github.com/ariel-frischer/gitchanges/internal/output"
	"github.com/ariel-frischer/gitchanges/internal/progress"
	"github.com/ariel-frischer/gitchanges/internal/watch"
)

// stdoutPath is the output value that writes to standard output.
const stdoutPath = "-"

func runGenerate(cmd *cobra.Command, _ []string) error {
	spin := newSpinner(cmd.ErrOrStderr())
	logger := newLogger(spin.Writer(cmd.ErrOrStderr()), verbose)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	watchMode, _ := cmd.Flags().GetBool("watch")
	if watchMode && cfg.Output == stdoutPath {
		return clierrors.InvalidFlagCombination("--watch --output -",
			"Watch mode rewrites the changelog on every change; choose an output file")
	}

	completion := lifecycle.LogHandler{Logger: logger}
	err = lifecycle.Run(completion, "generate", func() error {
		return generateChangelog(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), spin)
	})
	if err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchChangelog(ctx, cfg, logger, cmd.ErrOrStderr(), func(ctx context.Context) error {
		err := lifecycle.RunWithContext(ctx, completion, "regenerate", func(context.Context) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return generateChangelog(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), spin)
		})
		// Failed passes are reported and watching continues.
		if err != nil {
			printCommandError(cmd.ErrOrStderr(), err)
		}
		return nil
	})
}

// newSpinner draws on errOut when it is a terminal file.
func newSpinner(errOut io.Writer) *progress.Spinner {
	f, ok := errOut.(*os.File)
	if !ok {
		return progress.Disabled()
	}
	return progress.NewSpinner(f, !noProgress)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// generateChangelog runs one generation pass and writes the changelog, or one
// changelog per project in multi-project mode.
func generateChangelog(cfg *config.Configuration, logger *slog.Logger, out, errOut io.Writer, spin *progress.Spinner) error {
	// Sources are read lazily, so row diagnostics arrive while the spinner runs.
	p, err := newPipeline(cfg, logger, spin.Writer(errOut))
	if err != nil {
		return err
	}

	spin.Start("Generating changelog")

	if !cfg.MultiProject {
		doc, err := p.generator.Structure(p.sources...)
		if err != nil {
			spin.Fail("Reading changes failed")
			return clierrors.SourceFailed(err)
		}
		text, err := p.generator.Render(doc)
		if err != nil {
			spin.Fail("Rendering failed")
			return clierrors.TemplateError(err)
		}
		if err := writeOutput(cfg.Output, text, out); err != nil {
			spin.Fail("Writing changelog failed")
			return err
		}
		spin.Success(fmt.Sprintf("%d changes in %d versions -> %s", doc.Count(), len(doc.Versions), cfg.Output))
		return nil
	}

	docs, err := p.generator.StructureByProject(p.sources...)
	if err != nil {
		spin.Fail("Reading changes failed")
		return clierrors.SourceFailed(err)
	}
	for _, project := range docs.Projects() {
		text, err := p.generator.Render(docs[project])
		if err != nil {
			spin.Fail("Rendering failed")
			return clierrors.TemplateError(fmt.Errorf("project %s: %w", project, err))
		}

		path, err := projectOutputPath(cfg.Output, project)
		if err != nil {
			spin.Fail("Writing changelog failed")
			return err
		}
		if path == stdoutPath {
			text = fmt.Sprintf("<!-- project: %s -->\n%s", project, text)
		}
		if err := writeOutput(path, text, out); err != nil {
			spin.Fail("Writing changelog failed")
			return err
		}
		logger.Debug("wrote project changelog", "project", project, "path", path)
	}
	spin.Success(fmt.Sprintf("%d project changelogs written", len(docs)))
	return nil
}

// projectOutputPath places a project's changelog in a directory named after
// the project next to the configured output: docs/CHANGELOG.md becomes
// docs/<project>/CHANGELOG.md.
func projectOutputPath(output, project string) (string, error) {
	if output == stdoutPath {
		return stdoutPath, nil
	}
	if project == "" || !filepath.IsLocal(project) {
		return "", clierrors.NewRuntimeError(
			fmt.Sprintf("project name %q cannot be used as a directory", project),
			"Use project names without path separators or '..'",
		)
	}
	return filepath.Join(filepath.Dir(output), project, filepath.Base(output)), nil
}

// writeOutput writes text to path atomically, or to out when path is "-".
func writeOutput(path, text string, out io.Writer) error {
	if path == stdoutPath {
		_, err := io.WriteString(out, text)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
	}
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}

// watchPaths lists the files whose changes trigger a regeneration.
func watchPaths(cfg *config.Configuration, gitDir string) []string {
	var paths []string
	if cfgPath != "" {
		paths = append(paths, cfgPath)
	} else {
		paths = append(paths, config.ProjectConfigNames()...)
	}
	paths = append(paths, cfg.Template, cfg.OverrideSource)
	paths = append(paths, cfg.FileSources...)

	if gitDir != "" {
		// logs/HEAD grows on every commit. refs/tags is a directory: each new tag adds a file.
		for _, name := range []string{"HEAD", filepath.Join("logs", "HEAD"), "packed-refs", filepath.Join("refs", "tags")} {
			paths = append(paths, filepath.Join(gitDir, name))
		}
	}
	return paths
}

// watchChangelog blocks until ctx is cancelled, calling regenerate after each
// burst of changes to the watched files.
func watchChangelog(ctx context.Context, cfg *config.Configuration, logger *slog.Logger, errOut io.Writer, regenerate func(context.Context) error) error {
	var gitDir string
	if cfg.Repository.Path != "" {
		repo, err := git.Open(cfg.Repository.Path, logger)
		if err != nil {
			return clierrors.NotARepository(cfg.Repository.Path, err)
		}
		if root, err := repo.Root(); err == nil {
			gitDir = existingDir(filepath.Join(root, ".git"))
		}
	}

	w, err := watch.New(existingParents(watchPaths(cfg, gitDir)), watch.WithLogger(logger))
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot watch for changes")
	}
	defer w.Close()

	output.PrintWatching(errOut, w.Files())
	return w.Run(ctx, regenerate)
}

// existingParents drops paths whose directory does not exist.
func existingParents(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if existingDir(filepath.Dir(p)) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// existingDir returns dir if it exists and is a directory, "" otherwise.
func existingDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
