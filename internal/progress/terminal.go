// Package progress shows a spinner on the terminal while a changelog is generated.
package progress

import (
	"os"

	"golang.org/x/term"
)

// asciiEnv forces ASCII symbols when set to "1", for terminals whose fonts
// lack braille glyphs.
const asciiEnv = "GITCHANGES_ASCII"

// TerminalCapabilities describes what the output terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsUnicode bool
}

// ProgressSymbols are the status symbols and spinner character set to use.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14} // ⠋ ⠙ ⠹ ⠸
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9} // | / - \
)

// DetectTerminalCapabilities reports whether f is a terminal and whether
// Unicode symbols may be drawn on it.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	isTTY := term.IsTerminal(int(f.Fd()))
	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsUnicode: isTTY && os.Getenv(asciiEnv) != "1",
	}
}

// SelectSymbols returns the symbol set matching caps.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
