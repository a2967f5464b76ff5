package source

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ariel-frischer/gitchanges/internal/git"
)

// FieldSource names the part of a commit a FieldRule reads.
type FieldSource string

const (
	// FromMessage matches against the full commit message.
	FromMessage FieldSource = "message"
	// FromTag matches against the names of the tags pointing at the commit.
	FromTag FieldSource = "tag"
)

// FieldRule describes how one change field is extracted from a commit.
// Pattern must contain a capture group; the trimmed first group is the value.
type FieldRule struct {
	Source   FieldSource `koanf:"source" yaml:"source" validate:"omitempty,oneof=message tag"`
	Pattern  string      `koanf:"pattern" yaml:"pattern"`
	Optional bool        `koanf:"optional" yaml:"optional"`
}

// ParsingRules holds the extraction rule of every change field.
// Project is only consulted in multi-project mode.
type ParsingRules struct {
	Reference  FieldRule `koanf:"reference" yaml:"reference"`
	Version    FieldRule `koanf:"version" yaml:"version"`
	ChangeType FieldRule `koanf:"change_type" yaml:"change_type"`
	Project    FieldRule `koanf:"project" yaml:"project"`
}

// DefaultRules returns rules reading "key: value" lines from the commit message:
//
//	reference: PROJ-123
//	version: 1.2.0
//	type: Added
//	project: api
//
// Only the change type is required.
func DefaultRules() ParsingRules {
	return ParsingRules{
		Reference:  FieldRule{Source: FromMessage, Pattern: `reference:(.*)`, Optional: true},
		Version:    FieldRule{Source: FromMessage, Pattern: `version:(.*)`, Optional: true},
		ChangeType: FieldRule{Source: FromMessage, Pattern: `type:(.*)`},
		Project:    FieldRule{Source: FromMessage, Pattern: `project:(.*)`, Optional: true},
	}
}

type matcher struct {
	source   FieldSource
	re       *regexp.Regexp
	optional bool
}

type matchers struct {
	reference  matcher
	version    matcher
	changeType matcher
	project    matcher
}

func (r ParsingRules) compile() (matchers, error) {
	var m matchers
	var err error
	if m.reference, err = r.Reference.compile("reference"); err != nil {
		return matchers{}, err
	}
	if m.version, err = r.Version.compile("version"); err != nil {
		return matchers{}, err
	}
	if m.changeType, err = r.ChangeType.compile("change_type"); err != nil {
		return matchers{}, err
	}
	if m.project, err = r.Project.compile("project"); err != nil {
		return matchers{}, err
	}
	return m, nil
}

func (r FieldRule) compile(field string) (matcher, error) {
	source := r.Source
	if source == "" {
		source = FromMessage
	}
	if source != FromMessage && source != FromTag {
		return matcher{}, fmt.Errorf("parsing rule %s: unknown source %q (expected message or tag)", field, r.Source)
	}
	if r.Pattern == "" {
		return matcher{}, fmt.Errorf("parsing rule %s: pattern is empty", field)
	}

	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return matcher{}, fmt.Errorf("parsing rule %s: %w", field, err)
	}
	if re.NumSubexp() < 1 {
		return matcher{}, fmt.Errorf("parsing rule %s: pattern %q has no capture group", field, r.Pattern)
	}

	return matcher{source: source, re: re, optional: r.Optional}, nil
}

// find returns the trimmed first capture group for commit.
// A failed match or an empty capture reports false.
func (m matcher) find(commit git.Commit) (string, bool) {
	if m.source == FromTag {
		for _, tag := range commit.Tags {
			if v, ok := m.match(tag); ok {
				return v, true
			}
		}
		return "", false
	}
	return m.match(commit.Message)
}

func (m matcher) match(text string) (string, bool) {
	groups := m.re.FindStringSubmatch(text)
	if groups == nil {
		return "", false
	}
	v := strings.TrimSpace(groups[1])
	return v, v != ""
}

// value applies the rule's optional default. It reports false when a
// required field is missing.
func (m matcher) value(commit git.Commit, fallback string) (string, bool) {
	if v, ok := m.find(commit); ok {
		return v, true
	}
	if m.optional {
		return fallback, true
	}
	return "", false
}

// Validate reports the first rule that cannot be compiled.
func (r ParsingRules) Validate() error {
	_, err := r.compile()
	return err
}
