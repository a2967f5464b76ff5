package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// palette styles the parts of a formatted error.
type palette struct {
	label, message, category, usageLabel, usage, fixLabel, bullet func(a ...interface{}) string
}

// colored follows fatih/color's terminal detection, so it prints plain text
// when stdout is not a terminal or NO_COLOR is set.
var colored = palette{
	label:      color.New(color.FgRed, color.Bold).SprintFunc(),
	message:    color.New(color.FgRed).SprintFunc(),
	category:   color.New(color.FgYellow).SprintFunc(),
	usageLabel: color.New(color.FgCyan, color.Bold).SprintFunc(),
	usage:      color.New(color.FgCyan).SprintFunc(),
	fixLabel:   color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:     color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint,
	usageLabel: fmt.Sprint, usage: fmt.Sprint, fixLabel: fmt.Sprint, bullet: fmt.Sprint,
}

// FormatError formats a CLIError for the terminal, with colors when available.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

// formatError renders:
//
//	Error [<category>]: <message>
//
//	Usage: <usage>
//
//	To fix this:
//	  • <step>
func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usageLabel("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fixLabel("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
