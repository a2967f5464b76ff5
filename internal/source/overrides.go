package source

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
)

// OverrideEntry is an override declared in configuration.
type OverrideEntry struct {
	ID         string `koanf:"id" yaml:"id" validate:"required"`
	Project    string `koanf:"project" yaml:"project,omitempty"`
	Version    string `koanf:"version" yaml:"version" validate:"required"`
	ChangeType string `koanf:"change_type" yaml:"change_type" validate:"required"`
	Summary    string `koanf:"summary" yaml:"summary" validate:"required"`
	Date       string `koanf:"date" yaml:"date" validate:"required"`
	Reference  string `koanf:"reference" yaml:"reference,omitempty"`
}

// Change converts the entry into an override change.
func (e OverrideEntry) Change() (changelog.Change, error) {
	if e.ID == "" {
		return changelog.Change{}, &changelog.ValidationError{Field: "id", Message: "required field is empty"}
	}
	version, err := changelog.ParseVersion(e.Version)
	if err != nil {
		return changelog.Change{}, fmt.Errorf("override %s: %w", e.ID, err)
	}
	date, err := ParseDate(e.Date)
	if err != nil {
		return changelog.Change{}, fmt.Errorf("override %s: %w", e.ID, err)
	}
	change, err := changelog.NewChange(version, e.ChangeType, e.Summary, date, e.Reference)
	if err != nil {
		return changelog.Change{}, fmt.Errorf("override %s: %w", e.ID, err)
	}
	return change.WithProject(e.Project).WithID(e.ID), nil
}

// Add stores changes by their ID, replacing earlier entries with the same ID.
func (o Overrides) Add(changes ...changelog.Change) {
	for _, c := range changes {
		o[c.ID] = c
	}
}

// LoadOverrides reads override rows from path. The parser's layout always
// includes the id column. Malformed rows are reported by the parser and left
// out of the result.
func LoadOverrides(path string, parser RowParser) (Overrides, error) {
	parser.Layout.ID = true

	overrides := make(Overrides)
	for change, err := range (FileSource{Path: path, Parser: parser}).Changes() {
		if err != nil {
			return nil, err
		}
		overrides.Add(change)
	}
	return overrides, nil
}

// BuildOverrides merges the override file at path, if any, with configured
// entries. Entries win over rows with the same id.
func BuildOverrides(path string, parser RowParser, entries []OverrideEntry) (Overrides, error) {
	overrides := make(Overrides)
	if path != "" {
		loaded, err := LoadOverrides(path, parser)
		if err != nil {
			return nil, err
		}
		for _, c := range loaded {
			overrides.Add(c)
		}
	}

	var errs []error
	for _, e := range entries {
		change, err := e.Change()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		overrides.Add(change)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid override entries: %w", err)
	}
	return overrides, nil
}
