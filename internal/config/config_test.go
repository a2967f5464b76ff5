package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/gitchanges/internal/source"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadDir(t *testing.T, dir string) (*Configuration, error) {
	t.Helper()
	return LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true})
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadDir(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Repository.Path)
	assert.Empty(t, cfg.Repository.Overrides)
	assert.Equal(t, source.DefaultRules(), cfg.Parsing)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "|", cfg.Delimiter)
	assert.Equal(t, '|', cfg.DelimiterRune())
	assert.False(t, cfg.MultiProject)
	assert.Empty(t, cfg.Template)
	assert.Empty(t, cfg.MinVersion)
	assert.Empty(t, cfg.ExcludeChangeTypes)
	assert.Empty(t, cfg.FileSources)
}

func TestLoad_ProjectFormats(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
	}{
		"yaml": {
			name: ".gitchanges.yml",
			content: `output: docs/CHANGES.md
min_version: 1.2.0
exclude_change_types: [Maintenance, Docs]
delimiter: ";"
parsing:
  version:
    source: tag
    pattern: '^v(.*)$'
`,
		},
		"yaml long extension": {
			name: ".gitchanges.yaml",
			content: `output: docs/CHANGES.md
min_version: 1.2.0
exclude_change_types: [Maintenance, Docs]
delimiter: ";"
parsing:
  version: {source: tag, pattern: '^v(.*)$'}
`,
		},
		"json": {
			name: ".gitchanges.json",
			content: `{
  "output": "docs/CHANGES.md",
  "min_version": "1.2.0",
  "exclude_change_types": ["Maintenance", "Docs"],
  "delimiter": ";",
  "parsing": {"version": {"source": "tag", "pattern": "^v(.*)$"}}
}`,
		},
		"jsonc": {
			name: ".gitchanges.jsonc",
			content: `{
  // where the changelog goes
  "output": "docs/CHANGES.md",
  "min_version": "1.2.0",
  "exclude_change_types": ["Maintenance", "Docs",],
  "delimiter": ";",
  /* versions come from tags */
  "parsing": {"version": {"source": "tag", "pattern": "^v(.*)$"}},
}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.name, tt.content)

			cfg, err := loadDir(t, dir)
			require.NoError(t, err)

			assert.Equal(t, "docs/CHANGES.md", cfg.Output)
			assert.Equal(t, "1.2.0", cfg.MinVersion)
			assert.Equal(t, []string{"Maintenance", "Docs"}, cfg.ExcludeChangeTypes)
			assert.Equal(t, ';', cfg.DelimiterRune())
			assert.Equal(t, source.FromTag, cfg.Parsing.Version.Source)
			assert.Equal(t, "^v(.*)$", cfg.Parsing.Version.Pattern)
			// Keys missing from the file keep their defaults.
			assert.True(t, cfg.Parsing.Version.Optional)
			assert.Equal(t, source.DefaultRules().ChangeType, cfg.Parsing.ChangeType)
		})
	}
}

func TestLoad_ProjectConfigLookupOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.json", `{"output": "from-json.md"}`)
	writeConfig(t, dir, ".gitchanges.yml", "output: from-yaml.md\n")

	cfg, err := loadDir(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml.md", cfg.Output)
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "changelog-config.yml", "multi_project: true\n")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, SkipUserConfig: true})
	require.NoError(t, err)
	assert.True(t, cfg.MultiProject)

	_, err = LoadWithOptions(LoadOptions{ProjectConfigPath: filepath.Join(dir, "missing.yml"), SkipUserConfig: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.yml", `repository:
  path: ../app
  overrides:
    - id: abc123
      version: 1.0.1
      change_type: Fixed
      summary: Corrected entry
      date: 2024-01-15
      reference: GH-7
`)

	cfg, err := loadDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "../app", cfg.Repository.Path)
	require.Len(t, cfg.Repository.Overrides, 1)
	assert.Equal(t, source.OverrideEntry{
		ID:         "abc123",
		Version:    "1.0.1",
		ChangeType: "Fixed",
		Summary:    "Corrected entry",
		Date:       "2024-01-15",
		Reference:  "GH-7",
	}, cfg.Repository.Overrides[0])
}

func TestLoad_VersionsKeepTheirDigits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.yml", `min_version: "1.10"
repository:
  overrides:
    - id: abc123
      version: '2.10'
      change_type: Fixed
      summary: Corrected entry
      date: 2024-01-15
`)

	cfg, err := loadDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "1.10", cfg.MinVersion)
	require.Len(t, cfg.Repository.Overrides, 1)
	assert.Equal(t, "2.10", cfg.Repository.Overrides[0].Version)
	assert.Equal(t, "2024-01-15", cfg.Repository.Overrides[0].Date)
}

func TestLoad_UnquotedNumericVersions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantLine  int
	}{
		"float min_version": {
			content:   "min_version: 1.10\n",
			wantField: "min_version",
			wantLine:  1,
		},
		"integer min_version": {
			content:   "output: CHANGELOG.md\nmin_version: 2\n",
			wantField: "min_version",
			wantLine:  2,
		},
		"float override version": {
			content:   "repository:\n  overrides:\n    - id: abc\n      version: 2.10\n      change_type: Added\n      summary: s\n      date: 2024-01-01\n",
			wantField: "version",
			wantLine:  4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, ".gitchanges.yml", tt.content)

			_, err := loadDir(t, dir)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantLine, vErr.Line)
			assert.Contains(t, vErr.Message, "must be quoted")
		})
	}
}

func TestLoad_JSONNumericVersionRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.json", `{"min_version": 1.10}`)

	_, err := loadDir(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be quoted")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
	}{
		"multi-character delimiter": {
			content:   "delimiter: '||'\n",
			wantField: "delimiter",
		},
		"empty output": {
			content:   "output: ''\n",
			wantField: "output",
		},
		"unknown rule source": {
			content:   "parsing:\n  version:\n    source: branch\n",
			wantField: "parsing.version.source",
		},
		"pattern without group": {
			content:   "parsing:\n  change_type:\n    pattern: 'type:.*'\n",
			wantField: "parsing",
		},
		"incomplete override": {
			content:   "repository:\n  overrides:\n    - id: abc\n      version: 1.0.0\n      change_type: Added\n      date: 2024-01-01\n",
			wantField: "repository.overrides[0].summary",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, ".gitchanges.yml", tt.content)

			_, err := loadDir(t, dir)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestLoad_InvalidYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.yml", "output: CHANGELOG.md\n  bad: indent\n")

	_, err := loadDir(t, dir)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Positive(t, vErr.Line)
}

func TestLoad_InvalidJSONC(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.jsonc", `{"output": }`)

	_, err := loadDir(t, dir)
	require.Error(t, err)

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestLoad_EnvironmentOverridesProject(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.yml", "min_version: 1.0.0\noutput: project.md\n")

	t.Setenv("GITCHANGES_MIN_VERSION", "2.0.0")
	t.Setenv("GITCHANGES_REPOSITORY__PATH", "/srv/repo")
	t.Setenv("GITCHANGES_EXCLUDE_CHANGE_TYPES", "Chore,Docs")
	t.Setenv("GITCHANGES_MULTI_PROJECT", "true")

	cfg, err := loadDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.MinVersion)
	assert.Equal(t, "/srv/repo", cfg.Repository.Path)
	assert.Equal(t, []string{"Chore", "Docs"}, cfg.ExcludeChangeTypes)
	assert.True(t, cfg.MultiProject)
	assert.Equal(t, "project.md", cfg.Output)
}

func TestLoad_UserConfigBelowProject(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "gitchanges"), 0o755))
	writeConfig(t, filepath.Join(xdg, "gitchanges"), "config.yml", "output: user.md\ndelimiter: ';'\n")

	dir := t.TempDir()
	writeConfig(t, dir, ".gitchanges.yml", "output: project.md\n")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "project.md", cfg.Output)
	assert.Equal(t, ";", cfg.Delimiter)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateYAMLSyntaxFromBytes([]byte(GetDefaultConfigTemplate()), "template"))

	dir := t.TempDir()
	writeConfig(t, dir, ProjectConfigPath(), GetDefaultConfigTemplate())

	fromTemplate, err := loadDir(t, dir)
	require.NoError(t, err)
	defaults, err := loadDir(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, defaults.Repository.Path, fromTemplate.Repository.Path)
	assert.Equal(t, defaults.Parsing, fromTemplate.Parsing)
	assert.Equal(t, defaults.Output, fromTemplate.Output)
	assert.Equal(t, defaults.Delimiter, fromTemplate.Delimiter)
	assert.Equal(t, defaults.MultiProject, fromTemplate.MultiProject)
	assert.Empty(t, fromTemplate.ExcludeChangeTypes)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GITCHANGES_MIN_VERSION":               "min_version",
		"GITCHANGES_REPOSITORY__PATH":          "repository.path",
		"GITCHANGES_PARSING__VERSION__PATTERN": "parsing.version.pattern",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, envTransform(in))
		})
	}
}

func TestEnvValue_SplitsLists(t *testing.T) {
	t.Parallel()

	key, value := envValue("GITCHANGES_FILE_SOURCES", "a.txt, b.txt,,")
	assert.Equal(t, "file_sources", key)
	assert.Equal(t, []string{"a.txt", "b.txt"}, value)

	key, value = envValue("GITCHANGES_OUTPUT", "a,b.md")
	assert.Equal(t, "output", key)
	assert.Equal(t, "a,b.md", value)
}
