package changelog

import (
	"iter"

	"golang.org/x/text/cases"
)

// FilterOptions controls which changes survive Filter.
type FilterOptions struct {
	// MinVersion stops iteration at the first change older than it.
	// The zero Version disables the cutoff.
	MinVersion Version
	// ExcludeChangeTypes lists change types to drop, compared case-insensitively.
	ExcludeChangeTypes []string
}

// IsEmpty reports whether the options would let every change through.
func (o FilterOptions) IsEmpty() bool {
	return o.MinVersion.IsZero() && len(o.ExcludeChangeTypes) == 0
}

// FoldChangeType returns the case-folded form of a change type used for
// grouping and exclusion.
func FoldChangeType(changeType string) string {
	return cases.Fold().String(changeType)
}

// Filter wraps a newest-first stream of changes.
//
// Iteration ends at the first change whose version compares below
// opts.MinVersion: the stream is ordered newest first, so everything after it
// is older. Changes with an excluded type are skipped and iteration continues.
// An error from changes is passed through and ends the sequence.
//
// The returned sequence pulls from changes lazily and is only restartable if
// changes is.
func Filter(changes iter.Seq2[Change, error], opts FilterOptions) iter.Seq2[Change, error] {
	excluded := make(map[string]struct{}, len(opts.ExcludeChangeTypes))
	for _, t := range opts.ExcludeChangeTypes {
		excluded[FoldChangeType(t)] = struct{}{}
	}

	return func(yield func(Change, error) bool) {
		for c, err := range changes {
			if err != nil {
				yield(Change{}, err)
				return
			}
			if !opts.MinVersion.IsZero() && c.Version.Compare(opts.MinVersion) < 0 {
				return
			}
			if _, skip := excluded[FoldChangeType(c.ChangeType)]; skip {
				continue
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Changes adapts a slice to the stream shape consumed by Filter and Aggregator.
func Changes(changes ...Change) iter.Seq2[Change, error] {
	return func(yield func(Change, error) bool) {
		for _, c := range changes {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Collect drains a change stream into a slice, stopping at the first error.
func Collect(changes iter.Seq2[Change, error]) ([]Change, error) {
	var out []Change
	for c, err := range changes {
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}
