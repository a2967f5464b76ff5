package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/gitchanges/internal/output"
)

// ChangeTypeStyle defines the color and icon for a change type heading.
type ChangeTypeStyle struct {
	Color *color.Color
	Icon  string
}

// changeTypeStyles is keyed by folded Keep a Changelog section name.
var changeTypeStyles = map[string]ChangeTypeStyle{
	"added":      {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":    {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated": {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":    {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = ChangeTypeStyle{Color: color.New(color.FgCyan), Icon: "•"}

const entryPrefix = "  - "

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // no colors or icons
	MaxWidth int  // 0 detects the terminal width
}

// FormatTerminal writes doc to w as an indented, optionally colored outline.
// An empty document writes nothing.
func FormatTerminal(doc *Document, w io.Writer, opts FormatOptions) error {
	if doc.IsEmpty() {
		return nil
	}

	f := &terminalFormatter{w: w, plain: opts.Plain, width: opts.MaxWidth}
	if f.width <= 0 {
		f.width = output.GetTerminalWidth()
	}

	for i, v := range doc.Versions {
		if i > 0 {
			f.printf("\n")
		}
		f.version(v)
		if f.err != nil {
			return fmt.Errorf("formatting version %s: %w", v.Version, f.err)
		}
	}
	return nil
}

// terminalFormatter keeps the first write error and ignores later writes.
type terminalFormatter struct {
	w     io.Writer
	plain bool
	width int
	err   error
}

func (f *terminalFormatter) printf(format string, args ...any) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, format, args...)
}

func (f *terminalFormatter) version(v VersionBlock) {
	header := v.Version
	if v.Date != "" {
		header += " (" + v.Date + ")"
	}
	if !f.plain {
		header = color.New(color.Bold).Sprint(header)
	}
	f.printf("## %s\n", header)

	for _, t := range v.ChangeTypes {
		f.changeType(t)
	}
}

func (f *terminalFormatter) changeType(t ChangeTypeBlock) {
	style := styleFor(t.ChangeType)
	paint := style.Color.SprintFunc()

	if f.plain {
		f.printf("\n### %s\n", t.ChangeType)
	} else {
		f.printf("\n%s %s\n", paint(style.Icon), paint(t.ChangeType))
	}

	for _, e := range t.Changes {
		text := e.Summary
		if e.Reference != "" {
			text = "[" + e.Reference + "] " + e.Summary
		}
		if f.plain {
			f.printf("%s%s\n", entryPrefix, text)
			continue
		}
		f.printf("%s%s\n", entryPrefix, paint(wrapText(text, f.width-len(entryPrefix), "    ")))
	}
}

func styleFor(changeType string) ChangeTypeStyle {
	if style, ok := changeTypeStyles[FoldChangeType(changeType)]; ok {
		return style
	}
	return defaultStyle
}

// wrapText breaks text between words so each line fits maxWidth, prefixing
// continuation lines with indent. Words longer than maxWidth stay whole.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n"+indent)
}
