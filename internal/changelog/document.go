package changelog

// Document is the render structure produced by an Aggregator.
// Versions appear newest first.
type Document struct {
	Versions []VersionBlock `yaml:"versions" json:"versions"`
}

// VersionBlock holds every change type recorded for one version.
// Date is the latest change date of the version (format: YYYY-MM-DD).
type VersionBlock struct {
	Version     string            `yaml:"version" json:"version"`
	Date        string            `yaml:"date" json:"date"`
	ChangeTypes []ChangeTypeBlock `yaml:"changeTypes" json:"changeTypes"`
}

// ChangeTypeBlock groups the changes of one type within a version.
type ChangeTypeBlock struct {
	ChangeType string  `yaml:"changeType" json:"changeType"`
	Changes    []Entry `yaml:"changes" json:"changes"`
}

// Entry is a single rendered change line.
type Entry struct {
	Summary   string `yaml:"summary" json:"summary"`
	Reference string `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// IsEmpty returns true if the document has no versions.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Versions) == 0
}

// Count returns the total number of entries across all versions.
func (d *Document) Count() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, v := range d.Versions {
		for _, t := range v.ChangeTypes {
			n += len(t.Changes)
		}
	}
	return n
}

// ListVersions returns the version labels in document order.
func (d *Document) ListVersions() []string {
	if d == nil {
		return nil
	}
	versions := make([]string, len(d.Versions))
	for i, v := range d.Versions {
		versions[i] = v.Version
	}
	return versions
}

// Values returns the document as nested maps and slices, the context shape
// template engines expect:
//
//	versions[] {version, date, changeTypes[] {changeType, changes[] {summary, reference}}}
func (d *Document) Values() map[string]any {
	versions := make([]map[string]any, 0)
	if d != nil {
		for _, v := range d.Versions {
			changeTypes := make([]map[string]any, 0, len(v.ChangeTypes))
			for _, t := range v.ChangeTypes {
				changes := make([]map[string]any, 0, len(t.Changes))
				for _, e := range t.Changes {
					changes = append(changes, map[string]any{
						"summary":   e.Summary,
						"reference": e.Reference,
					})
				}
				changeTypes = append(changeTypes, map[string]any{
					"changeType": t.ChangeType,
					"changes":    changes,
				})
			}
			versions = append(versions, map[string]any{
				"version":     v.Version,
				"date":        v.Date,
				"changeTypes": changeTypes,
			})
		}
	}
	return map[string]any{"versions": versions}
}
