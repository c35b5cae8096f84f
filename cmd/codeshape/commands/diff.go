package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 2

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// lineDiff compares before and after line by line.
func lineDiff(before, after string) []diffLine {
	dmp := diffmatchpatch.New()

	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	var result []diffLine

	for _, chunk := range diffs {
		for line := range strings.Lines(chunk.Text) {
			result = append(result, diffLine{op: chunk.Type, text: strings.TrimSuffix(line, "\n")})
		}
	}

	return result
}

// renderDiff writes a unified-style diff with diffContext lines of
// context. It reports whether anything changed.
func renderDiff(out io.Writer, name, before, after string, colored bool) bool {
	lines := lineDiff(before, after)

	visible := make([]bool, len(lines))
	changed := false

	for idx, line := range lines {
		if line.op == diffmatchpatch.DiffEqual {
			continue
		}

		changed = true

		for near := max(0, idx-diffContext); near <= min(len(lines)-1, idx+diffContext); near++ {
			visible[near] = true
		}
	}

	if !changed {
		return false
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)

	if !colored {
		for _, painter := range []*color.Color{added, removed, header} {
			painter.DisableColor()
		}
	}

	fmt.Fprintf(out, "--- a/%s\n+++ b/%s\n", name, name)

	skipping := true

	for idx, line := range lines {
		if !visible[idx] {
			skipping = true

			continue
		}

		if skipping {
			header.Fprintln(out, "@@")

			skipping = false
		}

		switch line.op {
		case diffmatchpatch.DiffInsert:
			added.Fprintln(out, "+"+line.text)
		case diffmatchpatch.DiffDelete:
			removed.Fprintln(out, "-"+line.text)
		default:
			fmt.Fprintln(out, " "+line.text)
		}
	}

	return true
}
