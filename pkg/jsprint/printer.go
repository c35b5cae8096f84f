// Package jsprint regenerates source text from jsast trees. Subtrees that
// are unchanged since parsing are copied from the original source byte for
// byte; edited nodes are spliced into their original surroundings; nodes
// built from scratch are printed according to a codestyle.Profile.
package jsprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
	"github.com/Sumatoshi-tech/codeshape/pkg/safeconv"
)

// Sentinel errors for printing.
var (
	ErrNilRoot = errors.New("jsprint: nil root")
	ErrCycle   = errors.New("jsprint: node is its own ancestor")
)

// Options configures Print.
type Options struct {
	Style codestyle.Profile
}

// Result is the printed code.
type Result struct {
	Code string
}

// Print renders root to source text.
func Print(root *jsast.Node, opts Options) (Result, error) {
	if root == nil {
		return Result{}, ErrNilRoot
	}

	style := opts.Style
	if style.Quote == "" {
		style.Quote = codestyle.QuoteDouble
	}

	if style.WrapColumn <= 0 {
		style.WrapColumn = codestyle.DefaultWrapColumn
	}

	printer := &printer{
		style:  style,
		unit:   style.Indent(),
		memo:   make(map[*jsast.Node]bool),
		active: make(map[*jsast.Node]bool),
	}

	code := printer.render(root, "")
	if printer.err != nil {
		return Result{}, printer.err
	}

	return Result{Code: code}, nil
}

type printer struct {
	err    error
	memo   map[*jsast.Node]bool
	active map[*jsast.Node]bool
	style  codestyle.Profile
	unit   string
}

// render prints targetNode without its leading comments. indent is the
// indentation of the line the node starts on.
func (printer *printer) render(targetNode *jsast.Node, indent string) string {
	if targetNode == nil || printer.err != nil {
		return ""
	}

	if printer.active[targetNode] {
		printer.err = fmt.Errorf("%w: %s", ErrCycle, targetNode)

		return ""
	}

	printer.active[targetNode] = true
	defer delete(printer.active, targetNode)

	if targetNode.Parsed() && targetNode.Pristine(printer.memo) {
		return reindent(targetNode.Text(), originalIndent(targetNode), indent)
	}

	if targetNode.Parsed() {
		if text, ok := printer.layoutList(targetNode, indent); ok {
			return text
		}

		if text, ok := printer.patch(targetNode, indent); ok {
			return text
		}
	}

	return printer.generic(targetNode, indent)
}

// renderLead prints targetNode preceded by its leading comments.
func (printer *printer) renderLead(targetNode *jsast.Node, indent string) string {
	if targetNode == nil {
		return ""
	}

	body := printer.render(targetNode, indent)

	if targetNode.Parsed() && !targetNode.CommentsChanged() {
		lead := targetNode.LeadStart()
		if lead == targetNode.Pos.StartOffset {
			return body
		}

		leading := string(targetNode.Orig.Source[lead:targetNode.Pos.StartOffset])

		return reindent(leading, originalIndent(targetNode), indent) + body
	}

	return printer.comments(targetNode.Comments, indent) + body
}

func (printer *printer) comments(comments []jsast.Comment, indent string) string {
	var buf strings.Builder

	for _, comment := range comments {
		buf.WriteString(formatComment(comment))
		buf.WriteString("\n")
		buf.WriteString(indent)
	}

	return buf.String()
}

func formatComment(comment jsast.Comment) string {
	if !comment.Block {
		return "// " + comment.Text
	}

	if strings.HasPrefix(comment.Text, "*") {
		return "/*" + comment.Text + " */"
	}

	return "/* " + comment.Text + " */"
}

func (printer *printer) semi() string {
	if printer.style.UseSemi {
		return ";"
	}

	return ""
}

// originalIndent returns the indentation of the line where targetNode
// (including its leading comments) started in its source.
func originalIndent(targetNode *jsast.Node) string {
	if !targetNode.Parsed() {
		return ""
	}

	return lineIndent(targetNode.Orig.Source, targetNode.LeadStart())
}

func lineIndent(source []byte, offset uint) string {
	start := safeconv.MustUintToInt(min(offset, safeconv.MustIntToUint(len(source))))
	for start > 0 && source[start-1] != '\n' {
		start--
	}

	end := start
	for end < len(source) && (source[end] == ' ' || source[end] == '\t') {
		end++
	}

	return string(source[start:end])
}

// rebase maps an indentation taken from the original source into the
// output, given where the enclosing node moved from and to.
func rebase(childIndent, fromIndent, toIndent string) string {
	if fromIndent == toIndent {
		return childIndent
	}

	if rest, ok := strings.CutPrefix(childIndent, fromIndent); ok {
		return toIndent + rest
	}

	return toIndent
}

// reindent replaces the from prefix of every line after the first.
func reindent(text, from, to string) string {
	if from == to || !strings.Contains(text, "\n") {
		return text
	}

	lines := strings.Split(text, "\n")

	for idx := 1; idx < len(lines); idx++ {
		line := lines[idx]
		if strings.TrimSpace(line) == "" && idx < len(lines)-1 {
			continue
		}

		if rest, ok := strings.CutPrefix(line, from); ok {
			lines[idx] = to + rest
		}
	}

	return strings.Join(lines, "\n")
}
