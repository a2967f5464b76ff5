package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner reports the progress of a single long-running step.
// A disabled Spinner prints nothing.
type Spinner struct {
	spinner *spinner.Spinner
	out     io.Writer
	symbols ProgressSymbols
	enabled bool
}

// NewSpinner returns a spinner writing to f. It is enabled only when enabled
// is true and f is a terminal.
func NewSpinner(f *os.File, enabled bool) *Spinner {
	caps := DetectTerminalCapabilities(f)
	symbols := SelectSymbols(caps)

	s := &Spinner{
		out:     f,
		symbols: symbols,
		enabled: enabled && caps.IsTTY,
	}
	if s.enabled {
		s.spinner = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond,
			spinner.WithWriterFile(f),
			spinner.WithHiddenCursor(true),
		)
	}
	return s
}

// Disabled returns a spinner that prints nothing.
func Disabled() *Spinner {
	return &Spinner{out: io.Discard}
}

// Enabled reports whether the spinner draws anything.
func (s *Spinner) Enabled() bool {
	return s.enabled
}

// Start shows the spinner with message.
func (s *Spinner) Start(message string) {
	if !s.enabled {
		return
	}
	s.spinner.Suffix = " " + message
	s.spinner.Start()
}

// Success stops the spinner and prints message with a checkmark.
func (s *Spinner) Success(message string) {
	s.stop(s.symbols.Checkmark, message)
}

// Fail stops the spinner and prints message with a failure mark.
func (s *Spinner) Fail(message string) {
	s.stop(s.symbols.Failure, message)
}

func (s *Spinner) stop(symbol, message string) {
	if !s.enabled {
		return
	}
	s.spinner.Stop()
	fmt.Fprintf(s.out, "%s %s\n", symbol, message)
}

// Writer returns w wrapped so that each write first clears the running
// spinner and redraws it afterwards. Diagnostics written through it never
// share a line with spinner frames.
func (s *Spinner) Writer(w io.Writer) io.Writer {
	if !s.enabled {
		return w
	}
	return &suspendingWriter{spin: s.spinner, w: w}
}

// animation is the part of *spinner.Spinner a suspendingWriter drives.
type animation interface {
	Active() bool
	Start()
	Stop()
}

type suspendingWriter struct {
	spin animation
	w    io.Writer
}

func (sw *suspendingWriter) Write(p []byte) (int, error) {
	if !sw.spin.Active() {
		return sw.w.Write(p)
	}
	sw.spin.Stop()
	defer sw.spin.Start()
	return sw.w.Write(p)
}
