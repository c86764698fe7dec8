package errors

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ansi escape sequences used by the terminal format.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// detailWidth is the column at which Detail text wraps.
const detailWidth = 70

// colors is false when NO_COLOR is set or after DisableColors.
var colors = os.Getenv("NO_COLOR") == ""

// DisableColors turns off ANSI styling in Format and Fprint.
func DisableColors() { colors = false }

// EnableColors turns ANSI styling back on.
func EnableColors() { colors = true }

func paint(text string, codes ...string) string {
	if !colors || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders the error over several lines for a terminal: a header with
// the code, then the wrapped detail, the cause and the hint when present.
func (e *ReactiveError) Format() string {
	var b strings.Builder

	header := "ERROR: "
	if e.Code != "" {
		header = "ERROR " + e.Code + ": "
	}
	b.WriteString("\n" + paint(header, ansiBold, ansiRed) + paint(e.Message, ansiBold) + "\n\n")

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		b.WriteString("  " + strings.Join(lines, "\n  ") + "\n\n")
	}
	if e.Wrapped != nil {
		b.WriteString("  " + paint("Cause: ", ansiYellow) + e.Wrapped.Error() + "\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString("  " + paint("Hint: ", ansiCyan) + e.Suggestion + "\n\n")
	}
	return b.String()
}

// FormatCompact returns "CODE: message", or the message alone when the
// error has no code.
func (e *ReactiveError) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// wrapText breaks text into lines no longer than width, splitting on
// whitespace. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w. A ReactiveError anywhere in the chain is shown
// with Format; other errors get a one-line header.
func Fprint(w io.Writer, err error) {
	if re := (*ReactiveError)(nil); errors.As(err, &re) {
		fmt.Fprint(w, re.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", ansiBold, ansiRed), err.Error())
}
