// Package term owns everything that depends on stdout being a terminal:
// the ANSI color palette used by the logger and banner, TTY detection, and
// the single overwritten status line shown while a file converts.
//
// Colors are package-level strings set once by [Configure]; when colors are
// off they are empty, so concatenating them is a no-op.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/audionorm/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// palette maps each color variable to its escape sequence.
var palette = []struct {
	v    *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure resolves the color mode and sets the package-level colors.
// Called once during startup from logging.NewLogger.
func Configure(mode config.ColorMode) {
	on := wantColor(mode)
	for _, p := range palette {
		if on {
			*p.v = p.code
		} else {
			*p.v = ""
		}
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// wantColor applies the color mode. Auto enables colors only on a TTY,
// and honours NO_COLOR (https://no-color.org) and TERM=dumb.
func wantColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return IsTerminal(os.Stdout) &&
		os.Getenv("NO_COLOR") == "" &&
		!strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// StatusWidth is the width a status line is padded to, so a shorter line
// fully overwrites a longer one.
const StatusWidth = 80

// StatusLine is one \r-overwritten line of terminal output. A nil
// *StatusLine is valid and discards everything, which is what callers get
// when output is not a terminal.
type StatusLine struct {
	w io.Writer
}

// NewStatusLine returns a StatusLine on f, or nil when f is not a TTY.
func NewStatusLine(f *os.File) *StatusLine {
	if !IsTerminal(f) {
		return nil
	}
	return &StatusLine{w: f}
}

// NewStatusLineWriter returns a StatusLine that writes to w unconditionally.
func NewStatusLineWriter(w io.Writer) *StatusLine {
	return &StatusLine{w: w}
}

// Set replaces the line's text.
func (s *StatusLine) Set(text string) {
	if s == nil {
		return
	}
	if n := utf8.RuneCountInString(text); n < StatusWidth {
		text += strings.Repeat(" ", StatusWidth-n)
	}
	fmt.Fprintf(s.w, "\r%s", text)
}

// Clear blanks the line and returns the cursor to column zero.
func (s *StatusLine) Clear() {
	if s == nil {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", StatusWidth))
}
