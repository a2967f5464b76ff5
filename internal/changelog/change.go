package changelog

import (
	"fmt"
	"time"
)

// DateFormat is the layout used for change dates in rendered output and delimited sources.
const DateFormat = "2006-01-02"

// ValidationError describes a Change that could not be constructed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Change is a single normalized changelog entry.
//
// Project is only set for multi-project sources, and ID only for override
// records; both are empty otherwise. A Change is never modified in place:
// methods that alter a field return a new value.
type Change struct {
	Version    Version
	ChangeType string
	Summary    string
	Timestamp  time.Time
	Reference  string
	Project    string
	ID         string
}

// NewChange validates the required fields and returns a Change.
// Reference may be empty.
func NewChange(version Version, changeType, summary string, timestamp time.Time, reference string) (Change, error) {
	c := Change{
		Version:    version,
		ChangeType: changeType,
		Summary:    summary,
		Timestamp:  timestamp,
		Reference:  reference,
	}
	if err := c.Validate(); err != nil {
		return Change{}, err
	}
	return c, nil
}

// Validate checks the invariants every Change must satisfy.
func (c Change) Validate() error {
	if c.Version.IsZero() {
		return &ValidationError{Field: "version", Message: "required field is empty"}
	}
	if c.ChangeType == "" {
		return &ValidationError{Field: "change type", Message: "required field is empty"}
	}
	if c.Summary == "" {
		return &ValidationError{Field: "summary", Message: "required field is empty"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "required field is empty"}
	}
	return nil
}

// WithVersion returns a copy of c carrying version v.
func (c Change) WithVersion(v Version) Change {
	c.Version = v
	return c
}

// WithProject returns a copy of c scoped to project.
func (c Change) WithProject(project string) Change {
	c.Project = project
	return c
}

// WithID returns a copy of c keyed by the override identifier id.
func (c Change) WithID(id string) Change {
	c.ID = id
	return c
}

// Equal reports whether all fields of c and other match.
// Timestamps are compared as instants.
func (c Change) Equal(other Change) bool {
	return c.Version.Equal(other.Version) &&
		c.ChangeType == other.ChangeType &&
		c.Summary == other.Summary &&
		c.Timestamp.Equal(other.Timestamp) &&
		c.Reference == other.Reference &&
		c.Project == other.Project &&
		c.ID == other.ID
}

func (c Change) String() string {
	return fmt.Sprintf("Change{Version: %s, ChangeType: %s, Summary: %s, Date: %s, Reference: %s}",
		c.Version, c.ChangeType, c.Summary, c.Timestamp.Format(DateFormat), c.Reference)
}
