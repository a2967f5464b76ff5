// gitchanges - Changelog generation from git history
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/gitchanges

// Package config provides hierarchical configuration management for gitchanges using koanf.
// Configuration is loaded with priority: environment variables > project config (.gitchanges.yml)
// > user config (~/.config/gitchanges/config.yml) > defaults. Project config may also be
// written as JSON or JSON with comments (.gitchanges.json, .gitchanges.jsonc).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
	"github.com/ariel-frischer/gitchanges/internal/source"
)

// EnvPrefix prefixes every environment variable read by gitchanges.
// A double underscore separates nested keys: GITCHANGES_REPOSITORY__PATH sets repository.path.
const EnvPrefix = "GITCHANGES_"

// Configuration represents the gitchanges configuration
type Configuration struct {
	Repository RepositoryConfig    `koanf:"repository"`
	Parsing    source.ParsingRules `koanf:"parsing"`

	// Template is the path to a mustache template. Empty uses the built-in
	// Keep a Changelog template.
	Template string `koanf:"template"`
	// Output is the file the changelog is written to; "-" writes to stdout.
	Output string `koanf:"output" validate:"required"`

	MinVersion         string   `koanf:"min_version"`
	ExcludeChangeTypes []string `koanf:"exclude_change_types"`

	// FileSources lists delimited files read after the repository history.
	FileSources []string `koanf:"file_sources"`
	// OverrideSource is a delimited file of commit overrides.
	OverrideSource string `koanf:"override_source"`

	MultiProject bool   `koanf:"multi_project"`
	Delimiter    string `koanf:"delimiter" validate:"len=1"`
}

// RepositoryConfig locates the git repository and its configured overrides.
type RepositoryConfig struct {
	// Path is any directory inside the repository. Empty disables the git source.
	Path      string                 `koanf:"path"`
	Overrides []source.OverrideEntry `koanf:"overrides" validate:"dive"`
}

// DelimiterRune returns the row delimiter as a rune.
func (c *Configuration) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return source.DefaultDelimiter
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides project config discovery. The file must exist.
	ProjectConfigPath string
	// Dir is searched for project config files (default: current directory)
	Dir string
	// SkipUserConfig ignores the user-level config file
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/gitchanges/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	if err := loadConfigFile(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the explicit config file, or the first project
// config file found in opts.Dir.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions) error {
	path := opts.ProjectConfigPath
	if path != "" {
		if !fileExists(path) {
			return fmt.Errorf("config file %s does not exist", path)
		}
	} else {
		path = findProjectConfig(opts.Dir)
		if path == "" {
			return nil
		}
	}

	if err := loadConfigFile(k, path, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// findProjectConfig returns the first existing project config file in dir.
func findProjectConfig(dir string) string {
	for _, name := range ProjectConfigNames() {
		path := name
		if dir != "" {
			path = filepath.Join(dir, name)
		}
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// loadConfigFile picks the parser from the file extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
	case ".jsonc":
		if err := k.Load(JSONCProvider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
	default:
		return loadYAMLConfig(k, path, configType)
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
				stringScalarHook,
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Template = expandHomePath(cfg.Template)
	cfg.OverrideSource = expandHomePath(cfg.OverrideSource)
	for i, p := range cfg.FileSources {
		cfg.FileSources[i] = expandHomePath(p)
	}

	return &cfg, nil
}

// stringScalarHook decodes parser-typed scalars into string fields. YAML
// timestamps become yyyy-MM-dd dates. Floats are refused: 1.10 has already
// lost its trailing zero by the time it reaches the decoder.
func stringScalarHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v.Format(changelog.DateFormat), nil
	case float32, float64:
		return nil, fmt.Errorf("numeric value %v must be quoted to keep it as written", v)
	}
	return data, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: GITCHANGES_MIN_VERSION -> min_version, GITCHANGES_REPOSITORY__PATH -> repository.path
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// listKeys are the config keys whose environment values are comma-separated lists.
var listKeys = map[string]bool{
	"exclude_change_types": true,
	"file_sources":         true,
}

// envValue maps an environment variable to its config key, splitting list values.
// Example: GITCHANGES_EXCLUDE_CHANGE_TYPES=Chore,Docs -> exclude_change_types: [Chore Docs]
func envValue(key, value string) (string, interface{}) {
	key = envTransform(key)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
