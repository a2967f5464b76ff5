// Package changelog implements the change aggregation and versioning engine behind gitchanges.
//
// This package implements:
//   - Version ordering by embedded numeric runs (Version.Compare)
//   - The immutable Change record and its validation
//   - Lazy minimum-version and change-type filtering over newest-first streams
//   - Aggregation of changes into a deterministically ordered Document
//   - Rendering a Document through a template (mustache by default)
//   - Terminal formatting of a Document for previews
//
// Everything in this package is synchronous and owns no global state; a fresh
// Aggregator is expected per run.
package changelog
