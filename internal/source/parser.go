package source

import (
	"log/slog"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
	"github.com/ariel-frischer/gitchanges/internal/git"
)

const (
	// Uncategorized is the change type of commits without one when the
	// change type rule is optional.
	Uncategorized = "Uncategorized"
	// GlobalProject is the project of commits without one in multi-project mode.
	GlobalProject = "Global"
)

// Overrides maps commit hashes to the change that replaces the commit.
type Overrides map[string]changelog.Change

// origin records where a parsed change came from.
type origin int

const (
	fromExtraction origin = iota
	fromOverride
)

func (o origin) String() string {
	if o == fromOverride {
		return "override"
	}
	return "extraction"
}

type candidate struct {
	origin origin
	change changelog.Change
}

// CommitParser turns commits into changes.
//
// Commits must be fed newest first. A commit whose version is "Unreleased"
// takes the last explicit version seen, which is the nearest release after it;
// any other version becomes the new carried version. In multi-project mode the
// carried version is tracked per project.
//
// A CommitParser holds state for one pass over a history and is not safe for
// concurrent use.
type CommitParser struct {
	matchers     matchers
	overrides    Overrides
	multiProject bool
	logger       *slog.Logger
	unreleased   changelog.Version
	lastVersion  map[string]changelog.Version
}

// ParserOption configures a CommitParser.
type ParserOption func(*CommitParser)

// WithOverrides replaces commits whose hash is in overrides.
func WithOverrides(overrides Overrides) ParserOption {
	return func(p *CommitParser) {
		p.overrides = overrides
	}
}

// WithMultiProject enables project extraction.
func WithMultiProject(enabled bool) ParserOption {
	return func(p *CommitParser) {
		p.multiProject = enabled
	}
}

// WithLogger sets the logger used for per-commit debug output.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *CommitParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewCommitParser compiles rules and returns a parser with fresh carry-forward state.
func NewCommitParser(rules ParsingRules, opts ...ParserOption) (*CommitParser, error) {
	m, err := rules.compile()
	if err != nil {
		return nil, err
	}

	p := &CommitParser{
		matchers:    m,
		logger:      slog.Default(),
		unreleased:  changelog.MustVersion(changelog.Unreleased),
		lastVersion: make(map[string]changelog.Version),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse converts commit into a change. It reports false when the commit does
// not produce a change, for example when a required field is missing.
func (p *CommitParser) Parse(commit git.Commit) (changelog.Change, bool) {
	c, ok := p.resolve(commit)
	if !ok {
		return changelog.Change{}, false
	}

	change := p.carryForward(c.change)
	p.logger.Debug("parsed commit",
		"commit", commit.Hash,
		"origin", c.origin.String(),
		"reference", change.Reference,
		"change_type", change.ChangeType,
		"version", change.Version.String(),
	)
	return change, true
}

// resolve picks the override for commit or extracts its fields.
func (p *CommitParser) resolve(commit git.Commit) (candidate, bool) {
	if o, ok := p.overrides[commit.Hash]; ok {
		change := o
		if p.multiProject && change.Project == "" {
			change = change.WithProject(GlobalProject)
		}
		return candidate{origin: fromOverride, change: change}, true
	}

	change, ok := p.extract(commit)
	if !ok {
		return candidate{}, false
	}
	return candidate{origin: fromExtraction, change: change}, true
}

func (p *CommitParser) extract(commit git.Commit) (changelog.Change, bool) {
	reference, ok := p.matchers.reference.value(commit, "")
	if !ok {
		p.skip(commit, "reference")
		return changelog.Change{}, false
	}
	changeType, ok := p.matchers.changeType.value(commit, Uncategorized)
	if !ok {
		p.skip(commit, "change_type")
		return changelog.Change{}, false
	}
	label, ok := p.matchers.version.value(commit, changelog.Unreleased)
	if !ok {
		p.skip(commit, "version")
		return changelog.Change{}, false
	}

	var project string
	if p.multiProject {
		project, ok = p.matchers.project.value(commit, GlobalProject)
		if !ok {
			p.skip(commit, "project")
			return changelog.Change{}, false
		}
	}

	version, err := changelog.ParseVersion(label)
	if err != nil {
		p.skip(commit, "version")
		return changelog.Change{}, false
	}

	change, err := changelog.NewChange(version, changeType, commit.Summary(), commit.When, reference)
	if err != nil {
		p.logger.Debug("skipping commit", "commit", commit.Hash, "error", err)
		return changelog.Change{}, false
	}
	return change.WithProject(project), true
}

func (p *CommitParser) skip(commit git.Commit, field string) {
	p.logger.Debug("skipping commit", "commit", commit.Hash, "missing", field)
}

// carryForward resolves an Unreleased version to the carried version of the
// change's project, or records the change's version as the carried one.
func (p *CommitParser) carryForward(change changelog.Change) changelog.Change {
	if change.Version.IsUnreleased() {
		last, ok := p.lastVersion[change.Project]
		if !ok {
			last = p.unreleased
		}
		return change.WithVersion(last)
	}
	p.lastVersion[change.Project] = change.Version
	return change
}
