package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrCheckFailed is returned when check finds schema violations.
var ErrCheckFailed = errors.New("schema check failed")

// framer is implemented by errors that point at a node in the source.
type framer interface {
	CodeFrame() string
}

// printError writes err and, when it points into the source, a code
// frame with the offending line highlighted.
func printError(out io.Writer, err error, noColor bool) {
	label := color.New(color.FgRed, color.Bold)
	marker := color.New(color.FgYellow)

	if noColor {
		label.DisableColor()
		marker.DisableColor()
	}

	label.Fprint(out, "error: ")
	fmt.Fprintln(out, err.Error())

	var withFrame framer
	if !errors.As(err, &withFrame) {
		return
	}

	frame := withFrame.CodeFrame()
	if frame == "" {
		return
	}

	fmt.Fprintln(out)

	for line := range strings.Lines(frame) {
		if isFocusLine(line) {
			marker.Fprint(out, line)

			continue
		}

		fmt.Fprint(out, line)
	}

	if !strings.HasSuffix(frame, "\n") {
		fmt.Fprintln(out)
	}
}

// isFocusLine matches the highlighted source line and the caret under it.
func isFocusLine(line string) bool {
	if strings.HasPrefix(line, ">") {
		return true
	}

	return strings.HasPrefix(strings.TrimSpace(line), "|") && strings.HasSuffix(strings.TrimRight(line, "\n"), "^")
}
