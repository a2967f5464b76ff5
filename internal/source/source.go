package source

import (
	"bufio"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
	"github.com/ariel-frischer/gitchanges/internal/git"
)

// Source yields changes newest first. Each call to Changes starts a new pass.
type Source interface {
	Changes() iter.Seq2[changelog.Change, error]
}

// SliceSource serves changes held in memory.
type SliceSource []changelog.Change

// Changes implements Source.
func (s SliceSource) Changes() iter.Seq2[changelog.Change, error] {
	return changelog.Changes(s...)
}

// FileSource reads changes from a file of delimited rows. Blank lines are
// ignored; malformed rows are reported by the parser and dropped.
type FileSource struct {
	Path   string
	Parser RowParser
}

// Changes implements Source. Lines are read as the sequence is pulled.
func (s FileSource) Changes() iter.Seq2[changelog.Change, error] {
	return func(yield func(changelog.Change, error) bool) {
		f, err := os.Open(s.Path)
		if err != nil {
			yield(changelog.Change{}, fmt.Errorf("opening file source %s: %w", s.Path, err))
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			change, ok := s.Parser.Parse(line)
			if !ok {
				continue
			}
			if !yield(change, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(changelog.Change{}, fmt.Errorf("reading file source %s: %w", s.Path, err))
		}
	}
}

// GitSource reads changes from the commit history of a repository.
type GitSource struct {
	// Path is any directory inside the repository. Empty means the working directory.
	Path string
	// Repository is used instead of opening Path when set.
	Repository *git.Repository

	Rules        ParsingRules
	Overrides    Overrides
	MultiProject bool
	Logger       *slog.Logger
}

// Changes implements Source. Every pass uses a fresh CommitParser, so carried
// versions never leak between passes.
func (s GitSource) Changes() iter.Seq2[changelog.Change, error] {
	return func(yield func(changelog.Change, error) bool) {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}

		repo := s.Repository
		if repo == nil {
			var err error
			repo, err = git.Open(s.Path, logger)
			if err != nil {
				yield(changelog.Change{}, err)
				return
			}
		}

		parser, err := NewCommitParser(s.Rules,
			WithOverrides(s.Overrides),
			WithMultiProject(s.MultiProject),
			WithLogger(logger),
		)
		if err != nil {
			yield(changelog.Change{}, err)
			return
		}

		for commit, err := range repo.Commits() {
			if err != nil {
				yield(changelog.Change{}, err)
				return
			}
			change, ok := parser.Parse(commit)
			if !ok {
				continue
			}
			if !yield(change, nil) {
				return
			}
		}
	}
}
