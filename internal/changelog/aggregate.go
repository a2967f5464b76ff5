package changelog

import (
	"iter"
	"slices"
	"strings"
	"time"
)

// groupKey identifies the changes rendered together under one change type
// heading of one version.
type groupKey struct {
	version    string
	changeType string // folded
}

type group struct {
	version    Version
	changeType string // first-seen spelling, used for display
	changes    []Change
}

// Aggregator collects changes keyed by version and change type and builds
// the ordered Document handed to a Renderer.
//
// An Aggregator is not safe for concurrent use. Use a fresh instance per run.
type Aggregator struct {
	groups map[groupKey]*group
	order  []groupKey
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{groups: make(map[groupKey]*group)}
}

// Add appends changes to their groups, preserving insertion order per group.
func (a *Aggregator) Add(changes ...Change) {
	for _, c := range changes {
		key := groupKey{version: c.Version.String(), changeType: FoldChangeType(c.ChangeType)}
		g, ok := a.groups[key]
		if !ok {
			g = &group{version: c.Version, changeType: c.ChangeType}
			a.groups[key] = g
			a.order = append(a.order, key)
		}
		g.changes = append(g.changes, c)
	}
}

// AddAll drains a change stream into the aggregator.
// Changes seen before an error stay aggregated.
func (a *Aggregator) AddAll(changes iter.Seq2[Change, error]) error {
	for c, err := range changes {
		if err != nil {
			return err
		}
		a.Add(c)
	}
	return nil
}

// Len returns the number of changes collected so far.
func (a *Aggregator) Len() int {
	n := 0
	for _, g := range a.groups {
		n += len(g.changes)
	}
	return n
}

// Document builds the render structure.
//
// Versions are ordered newest first by Version.Compare, change types
// alphabetically, and the changes of a type by timestamp, newest first.
// The date of a version is the latest timestamp across all its changes.
func (a *Aggregator) Document() *Document {
	type versionGroups struct {
		version Version
		groups  []*group
	}

	byVersion := make(map[string]*versionGroups)
	var versions []*versionGroups
	for _, key := range a.order {
		g := a.groups[key]
		vg, ok := byVersion[key.version]
		if !ok {
			vg = &versionGroups{version: g.version}
			byVersion[key.version] = vg
			versions = append(versions, vg)
		}
		vg.groups = append(vg.groups, g)
	}

	slices.SortFunc(versions, func(x, y *versionGroups) int {
		if c := y.version.Compare(x.version); c != 0 {
			return c
		}
		// Labels that share numbers ("1.0" and "1.0.0") still need a stable order.
		return strings.Compare(y.version.String(), x.version.String())
	})

	doc := &Document{Versions: make([]VersionBlock, 0, len(versions))}
	for _, vg := range versions {
		slices.SortFunc(vg.groups, func(x, y *group) int {
			if c := strings.Compare(x.changeType, y.changeType); c != 0 {
				return c
			}
			return strings.Compare(FoldChangeType(x.changeType), FoldChangeType(y.changeType))
		})

		var latest time.Time
		block := VersionBlock{Version: vg.version.String()}
		for _, g := range vg.groups {
			changes := slices.Clone(g.changes)
			slices.SortStableFunc(changes, func(x, y Change) int {
				return y.Timestamp.Compare(x.Timestamp)
			})

			typeBlock := ChangeTypeBlock{
				ChangeType: g.changeType,
				Changes:    make([]Entry, 0, len(changes)),
			}
			for _, c := range changes {
				if c.Timestamp.After(latest) {
					latest = c.Timestamp
				}
				typeBlock.Changes = append(typeBlock.Changes, Entry{Summary: c.Summary, Reference: c.Reference})
			}
			block.ChangeTypes = append(block.ChangeTypes, typeBlock)
		}
		block.Date = latest.Format(DateFormat)
		doc.Versions = append(doc.Versions, block)
	}

	return doc
}
