// Package source produces streams of changelog changes.
//
// A Source yields changes newest first. GitSource reads commit history and
// turns each commit into a change with a CommitParser, which extracts fields
// with configurable patterns, applies overrides and resolves "Unreleased"
// versions by carrying the nearest explicit version forward. FileSource reads
// changes from delimited rows.
package source
