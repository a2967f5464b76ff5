package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax checks that the YAML file at filePath parses.
// A missing or empty file is valid; defaults apply.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, os.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks that data parses as YAML. The returned
// ValidationError carries the line and column reported by the parser.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return checkVersionScalars(&node, filePath)
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	vErr := &ValidationError{FilePath: filePath, Message: err.Error()}
	if m := yamlPosition.FindStringSubmatch(err.Error()); m != nil {
		vErr.Line, _ = strconv.Atoi(m[1])
		vErr.Column = 1
		if m[2] != "" {
			vErr.Column, _ = strconv.Atoi(m[2])
		}
		vErr.Message = err.Error()[len(m[0]):]
	}
	return vErr
}

// yamlPosition matches the position prefix of yaml.v3 errors:
// "yaml: line 5: could not find expected ':'" or "yaml: line 5: column 3: ...".
var yamlPosition = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? `)

// versionKeys name the config keys holding version strings:
// min_version and repository.overrides[].version.
var versionKeys = map[string]bool{"min_version": true, "version": true}

// checkVersionScalars rejects unquoted versions that YAML would read as a
// number or date. min_version: 1.10 would otherwise load as "1.1".
func checkVersionScalars(node *yaml.Node, filePath string) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if !versionKeys[key.Value] || value.Kind != yaml.ScalarNode {
				continue
			}
			switch value.ShortTag() {
			case "!!str", "!!null":
				continue
			}
			return &ValidationError{
				FilePath: filePath,
				Line:     value.Line,
				Column:   value.Column,
				Field:    key.Value,
				Message:  fmt.Sprintf("%s %s must be quoted to keep it as written, e.g. %s: %q", key.Value, value.Value, key.Value, value.Value),
			}
		}
	}
	for _, child := range node.Content {
		if err := checkVersionScalars(child, filePath); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConfigValues checks cfg against its struct tags and compiles its
// parsing rules. Every invalid field is reported; errors.As finds the first.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(koanfTagName)

	var errs []error
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return &ValidationError{FilePath: filePath, Message: err.Error()}
		}
		for _, fieldErr := range fieldErrs {
			errs = append(errs, &ValidationError{
				FilePath: filePath,
				Field:    fieldPath(fieldErr),
				Message:  describeFieldError(fieldErr),
			})
		}
	}

	if err := cfg.Parsing.Validate(); err != nil {
		errs = append(errs, &ValidationError{FilePath: filePath, Field: "parsing", Message: err.Error()})
	}

	return errors.Join(errs...)
}

// koanfTagName names struct fields by their config key in validation errors.
func koanfTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// fieldPath returns the dotted config key of a failed field,
// e.g. "repository.overrides[0].date".
func fieldPath(fieldErr validator.FieldError) string {
	if _, rest, ok := strings.Cut(fieldErr.Namespace(), "."); ok {
		return rest
	}
	return fieldErr.Field()
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s character(s)", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
