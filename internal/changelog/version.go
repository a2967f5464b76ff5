package changelog

import (
	"errors"
	"strings"
)

// Unreleased is the version label for changes that have not been released yet.
// Parsers resolve it to the nearest explicit version when one is known.
const Unreleased = "Unreleased"

// ErrEmptyVersion is returned when a version is constructed from an empty string.
var ErrEmptyVersion = errors.New("version cannot be empty")

// Version is a comparable version label. Ordering is derived from the maximal
// runs of digits embedded in the label, so "1.10.0" sorts after "1.9.0" and
// "release-2" sorts after "release-1".
//
// Two versions are equal only when their labels are identical; "1.0" and
// "1.0.0" compare as equal but are different versions.
type Version struct {
	value   string
	numbers []string
}

// ParseVersion creates a Version from its label.
// Returns ErrEmptyVersion if the label is empty.
func ParseVersion(value string) (Version, error) {
	if value == "" {
		return Version{}, ErrEmptyVersion
	}
	return Version{value: value, numbers: digitRuns(value)}, nil
}

// MustVersion is like ParseVersion but panics on an empty label.
// It is intended for literals and tests.
func MustVersion(value string) Version {
	v, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}
	return v
}

// digitRuns extracts the maximal digit runs of s with leading zeros removed.
// Runs are kept as strings so arbitrarily long numbers compare without overflow.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i <= len(s); i++ {
		isDigit := i < len(s) && s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			run := strings.TrimLeft(s[start:i], "0")
			if run == "" {
				run = "0"
			}
			runs = append(runs, run)
			start = -1
		}
	}
	return runs
}

// String returns the version label.
func (v Version) String() string {
	return v.value
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool {
	return v.value == ""
}

// IsUnreleased reports whether the label is the Unreleased sentinel, ignoring case.
func (v Version) IsUnreleased() bool {
	return IsUnreleasedLabel(v.value)
}

// IsUnreleasedLabel reports whether label is the Unreleased sentinel, ignoring case.
func IsUnreleasedLabel(label string) bool {
	return strings.EqualFold(label, Unreleased)
}

// Equal reports whether both versions carry the same label.
func (v Version) Equal(other Version) bool {
	return v.value == other.value
}

// Compare orders v against other and returns -1, 0 or 1.
//
// When both labels contain numbers they are compared run by run and the first
// difference decides; a label whose runs are a prefix of the other's compares
// equal. When neither contains numbers the labels are compared ordinally. A
// label without numbers sorts above any label with numbers, which keeps
// "Unreleased" ahead of every numbered release.
func (v Version) Compare(other Version) int {
	switch {
	case len(v.numbers) > 0 && len(other.numbers) > 0:
		n := min(len(v.numbers), len(other.numbers))
		for i := 0; i < n; i++ {
			if c := compareNumeric(v.numbers[i], other.numbers[i]); c != 0 {
				return c
			}
		}
		return 0
	case len(v.numbers) == 0 && len(other.numbers) == 0:
		return strings.Compare(v.value, other.value)
	case len(v.numbers) == 0:
		return 1
	default:
		return -1
	}
}

// compareNumeric compares two digit strings without leading zeros.
func compareNumeric(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
