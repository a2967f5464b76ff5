package config

import "github.com/ariel-frischer/gitchanges/internal/source"

// DefaultOutput is the file the changelog is written to by default.
const DefaultOutput = "CHANGELOG.md"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# gitchanges configuration
# Values can also be set with GITCHANGES_* environment variables,
# e.g. GITCHANGES_MIN_VERSION=1.0.0 or GITCHANGES_REPOSITORY__PATH=../app

repository:
  path: .                             # Any directory inside the repository ("" disables git)
  overrides: []                       # Replace commits by hash:
  # - id: 3f2a9c1e...                 # Commit hash
  #   version: 1.2.0
  #   change_type: Fixed
  #   summary: Corrected changelog entry
  #   date: 2024-01-15                # yyyy-MM-dd
  #   reference: GH-42                # Optional
  #   project: api                    # Optional, multi-project mode

# How fields are extracted from commits. source: message | tag
# The first capture group of pattern is the value.
parsing:
  reference:
    source: message
    pattern: 'reference:(.*)'
    optional: true
  version:
    source: message
    pattern: 'version:(.*)'
    optional: true                    # Missing versions are "Unreleased"
  change_type:
    source: message
    pattern: 'type:(.*)'
    optional: false                   # Commits without a type are skipped
  project:
    source: message
    pattern: 'project:(.*)'
    optional: true                    # Missing projects are "Global"

template: ""                          # Mustache template path (empty = Keep a Changelog)
output: CHANGELOG.md                  # Output file, "-" for stdout
min_version: ""                       # Drop changes older than this version
exclude_change_types: []              # Change types to drop (case-insensitive)
file_sources: []                      # Delimited files: [reference|]version|type|summary|yyyy-MM-dd
override_source: ""                   # Delimited overrides: id|[reference|]version|type|summary|yyyy-MM-dd
multi_project: false                  # One changelog per project
delimiter: "|"                        # Field delimiter of file and override sources
`
}

// GetDefaults returns the default configuration values keyed by config path.
func GetDefaults() map[string]interface{} {
	rules := source.DefaultRules()
	defaults := map[string]interface{}{
		"repository.path":      ".",
		"repository.overrides": []interface{}{},
		"template":             "",
		"output":               DefaultOutput,
		"min_version":          "",
		"exclude_change_types": []string{},
		"file_sources":         []string{},
		"override_source":      "",
		"multi_project":        false,
		"delimiter":            string(source.DefaultDelimiter),
	}

	for name, rule := range map[string]source.FieldRule{
		"reference":   rules.Reference,
		"version":     rules.Version,
		"change_type": rules.ChangeType,
		"project":     rules.Project,
	} {
		defaults["parsing."+name+".source"] = string(rule.Source)
		defaults["parsing."+name+".pattern"] = rule.Pattern
		defaults["parsing."+name+".optional"] = rule.Optional
	}

	return defaults
}
