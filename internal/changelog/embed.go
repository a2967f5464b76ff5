package changelog

import (
	_ "embed"
)

//go:embed template.mustache
var defaultTemplate string

// DefaultTemplate returns the built-in Keep a Changelog mustache template.
// It is used when no template file is configured.
func DefaultTemplate() string {
	return defaultTemplate
}
