package errors

import "fmt"

// Common error messages for the gitchanges CLI.
// These templates ensure consistent, actionable error messages.

// NotARepository creates an error when the configured repository cannot be opened.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot read git history at %s", path),
		"Run gitchanges inside a git repository, or pass --repo <path>",
		"Set repository.path to \"\" in .gitchanges.yml to use file sources only",
	)
}

// SourceFailed creates an error when a change source cannot be read.
func SourceFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"reading changes failed",
		"Check that every file source and the override source exist and are readable",
		"Run with --verbose to see which commits were parsed",
	)
}

// ConfigLoadError creates an error for a config file that cannot be loaded.
func ConfigLoadError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .gitchanges.yml for syntax errors",
		"Write a fresh default config with: gitchanges init --force",
	)
}

// TemplateNotFound creates an error for a missing template file.
func TemplateNotFound(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("cannot read template %s", path),
		"Check the template path in .gitchanges.yml or --template",
		"Remove the template setting to use the built-in Keep a Changelog template",
	)
}

// TemplateError creates an error when the template fails to render.
func TemplateError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"rendering changelog failed",
		"Check the template for unbalanced {{#section}} tags",
		"Available keys: versions, version, date, changeTypes, changeType, changes, summary, reference",
	)
}

// InvalidMinVersion creates an error for an unusable minimum version.
func InvalidMinVersion(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid minimum version",
		"Pass a version label such as --min-version 1.2.0",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'gitchanges <command> --help' to see valid options",
	)
}

// InvalidDelimiter creates an error for a delimiter that is not a single character.
func InvalidDelimiter(delimiter string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("delimiter must be a single character, got %q", delimiter),
		"gitchanges --delimiter ';'",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// ConfigExists creates an error when init would overwrite an existing config.
func ConfigExists(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file already exists: %s", path),
		"Use 'gitchanges init --force' to overwrite it",
	)
}
