package source

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
)

// DefaultDelimiter separates the fields of a delimited row.
const DefaultDelimiter = '|'

// RowLayout selects the leading columns of a delimited row. Every layout ends
// with [reference|]version|changeType|summary|yyyy-MM-dd; ID adds a leading
// override id column and Project a project column after it.
type RowLayout struct {
	ID      bool
	Project bool
}

// fieldCounts returns the accepted number of fields without and with a reference.
func (l RowLayout) fieldCounts() (int, int) {
	n := 4
	if l.ID {
		n++
	}
	if l.Project {
		n++
	}
	return n, n + 1
}

// RowParser parses delimited rows into changes. Rows that cannot be parsed are
// reported on Errors as "Error parsing line '<line>'. <reason>" and dropped.
type RowParser struct {
	Layout RowLayout
	// Delimiter defaults to DefaultDelimiter.
	Delimiter rune
	// Errors receives one line per malformed row. Nil discards them.
	Errors io.Writer
}

// Parse parses one row. It reports false when the row is malformed.
func (p RowParser) Parse(line string) (changelog.Change, bool) {
	change, err := p.parse(line)
	if err != nil {
		if p.Errors != nil {
			fmt.Fprintf(p.Errors, "Error parsing line '%s'. %s\n", line, err)
		}
		return changelog.Change{}, false
	}
	return change, true
}

func (p RowParser) parse(line string) (changelog.Change, error) {
	delimiter := p.Delimiter
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	values := strings.Split(line, string(delimiter))

	short, long := p.Layout.fieldCounts()
	if len(values) != short && len(values) != long {
		return changelog.Change{}, fmt.Errorf("Wrong number of values. Expected %d or %d but was %d", short, long, len(values))
	}

	var id, project, reference string
	if p.Layout.ID {
		id, values = values[0], values[1:]
		if id == "" {
			return changelog.Change{}, &changelog.ValidationError{Field: "id", Message: "required field is empty"}
		}
	}
	if p.Layout.Project {
		project, values = values[0], values[1:]
		if project == "" {
			return changelog.Change{}, &changelog.ValidationError{Field: "project", Message: "required field is empty"}
		}
	}
	if len(values) == 5 {
		reference, values = values[0], values[1:]
	}

	version, err := changelog.ParseVersion(values[0])
	if err != nil {
		return changelog.Change{}, err
	}
	date, err := ParseDate(values[3])
	if err != nil {
		return changelog.Change{}, err
	}

	change, err := changelog.NewChange(version, values[1], values[2], date, reference)
	if err != nil {
		return changelog.Change{}, err
	}
	return change.WithProject(project).WithID(id), nil
}

// ErrDateFormat is returned for dates not in yyyy-MM-dd form.
var ErrDateFormat = errors.New("Date should match the format 'yyyy-MM-dd'")

// ParseDate parses a yyyy-MM-dd date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(changelog.DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}
