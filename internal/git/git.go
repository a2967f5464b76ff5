// Package git provides read-only access to git history for gitchanges. It uses the go-git
// library to open repositories, walk commits newest first and resolve the tags pointing at
// each commit, so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Commit is the subset of a git commit gitchanges reads.
type Commit struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
	// Tags lists the names of the tags pointing at this commit, sorted.
	Tags []string
}

// Summary returns the first line of the commit message.
func (c Commit) Summary() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(line)
}

// Repository wraps a go-git repository.
type Repository struct {
	repo   *git.Repository
	logger *slog.Logger
}

// Open opens the git repository containing path, or the current working
// directory when path is empty. Parent directories are searched for the .git
// directory.
func Open(path string, logger *slog.Logger) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("opening repository", "path", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Repository{repo: repo, logger: logger}, nil
}

// Wrap adapts an already opened go-git repository, such as an in-memory one.
func Wrap(repo *git.Repository, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{repo: repo, logger: logger}
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := Open(path, nil)
	return err == nil
}

// Root returns the absolute path of the repository's worktree.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// TagsByCommit maps commit hashes to the names of the tags pointing at them.
// Annotated tags are resolved to the commit they target; tags pointing at
// other object types are ignored.
func (r *Repository) TagsByCommit() (map[string][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tags := make(map[string][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()

		tagObj, err := r.repo.TagObject(hash)
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				r.logger.Debug("skipping tag not pointing at a commit", "tag", ref.Name().Short())
				return nil
			}
			hash = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("resolving tag %s: %w", ref.Name().Short(), err)
		}

		key := hash.String()
		tags[key] = append(tags[key], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	for _, names := range tags {
		sort.Strings(names)
	}
	r.logger.Debug("resolved tags", "commits", len(tags))
	return tags, nil
}

// Commits walks the history reachable from HEAD, newest first by committer
// time. Each commit carries the tags pointing at it. A repository without
// commits yields nothing.
//
// The sequence is lazy: history is read as the caller pulls commits.
func (r *Repository) Commits() iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		head, err := r.repo.Head()
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				r.logger.Debug("repository has no commits")
				return
			}
			yield(Commit{}, fmt.Errorf("getting HEAD reference: %w", err))
			return
		}

		tags, err := r.TagsByCommit()
		if err != nil {
			yield(Commit{}, err)
			return
		}

		log, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
		if err != nil {
			yield(Commit{}, fmt.Errorf("reading log: %w", err))
			return
		}
		defer log.Close()

		stopped := false
		err = log.ForEach(func(c *object.Commit) error {
			commit := Commit{
				Hash:    c.Hash.String(),
				Message: c.Message,
				Author:  c.Author.Name,
				When:    c.Author.When,
				Tags:    tags[c.Hash.String()],
			}
			if !yield(commit, nil) {
				stopped = true
				return storer.ErrStop
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Commit{}, fmt.Errorf("walking commits: %w", err))
		}
	}
}
