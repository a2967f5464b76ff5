// Package output provides terminal output formatting utilities for the gitchanges CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSuccess prints a green checkmark followed by a "label: detail" line.
func PrintSuccess(out io.Writer, label, detail string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s: %s\n", green("✓"), label, cyan(detail))
}

// PrintWatching prints the watch mode banner.
func PrintWatching(out io.Writer, files int) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta(fmt.Sprintf("→ Watching %d files for changes", files)), dim("(Ctrl+C to stop)"))
}
