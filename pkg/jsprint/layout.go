package jsprint

import (
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// listTypes are printed element by element, reusing the original
// separators between elements that were already neighbours.
var listTypes = map[jsast.Type]bool{ //nolint:gochecknoglobals // read-only lookup table.
	jsast.Program:          true,
	jsast.ObjectExpression: true,
	jsast.ArrayExpression:  true,
	jsast.Arguments:        true,
	jsast.BlockStatement:   true,
}

// layoutList prints a changed list node. It reports false when the node
// cannot be laid out from its original text.
func (printer *printer) layoutList(targetNode *jsast.Node, indent string) (string, bool) {
	if !listTypes[targetNode.Type] || targetNode.Token != targetNode.Orig.Token {
		return "", false
	}

	orig := targetNode.Orig.Children
	if len(orig) == 0 || len(targetNode.Children) == 0 {
		return "", false
	}

	if hasHole(orig) || hasHole(targetNode.Children) || !ordered(orig) {
		return "", false
	}

	source := targetNode.Orig.Source
	from := originalIndent(targetNode)
	first, last := orig[0], orig[len(orig)-1]

	open := string(source[targetNode.Pos.StartOffset:first.LeadStart()])
	closing := string(source[last.Pos.EndOffset:targetNode.Pos.EndOffset])
	itemIndent := rebase(lineIndent(source, first.LeadStart()), from, indent)

	position := make(map[*jsast.Node]int, len(orig))
	for idx, child := range orig {
		position[child] = idx
	}

	fallbackGap := defaultGap(targetNode, open, itemIndent, indent)

	var buf strings.Builder

	buf.WriteString(reindent(open, from, indent))

	for idx, child := range targetNode.Children {
		if idx > 0 {
			prevPos, prevOK := position[targetNode.Children[idx-1]]
			curPos, curOK := position[child]

			if prevOK && curOK && curPos == prevPos+1 {
				gap := string(source[orig[prevPos].Pos.EndOffset:orig[curPos].LeadStart()])
				buf.WriteString(reindent(gap, from, indent))
			} else {
				buf.WriteString(fallbackGap)
			}
		}

		buf.WriteString(printer.renderLead(child, itemIndent))
	}

	buf.WriteString(reindent(closing, from, indent))

	return buf.String(), true
}

// defaultGap picks the separator for elements that were not neighbours:
// the first original separator without comments, or one synthesized from
// the list's shape.
func defaultGap(targetNode *jsast.Node, open, itemIndent, indent string) string {
	orig := targetNode.Orig.Children
	source := targetNode.Orig.Source
	statements := targetNode.Type == jsast.Program || targetNode.Type == jsast.BlockStatement

	if statements {
		return "\n" + itemIndent
	}

	for idx := 1; idx < len(orig); idx++ {
		gap := string(source[orig[idx-1].Pos.EndOffset:orig[idx].LeadStart()])
		if !strings.Contains(gap, "//") && !strings.Contains(gap, "/*") {
			return reindent(gap, originalIndent(targetNode), indent)
		}
	}

	if strings.Contains(open, "\n") {
		return ",\n" + itemIndent
	}

	return ", "
}

// patch prints a changed node by replacing each child's original region
// with the child's new text. All children must keep their slots.
func (printer *printer) patch(targetNode *jsast.Node, indent string) (string, bool) {
	if targetNode.Token != targetNode.Orig.Token || len(targetNode.Children) == 0 {
		return "", false
	}

	orig := targetNode.Orig.Children
	if len(orig) != len(targetNode.Children) {
		return "", false
	}

	for idx, child := range orig {
		if (child == nil) != (targetNode.Children[idx] == nil) {
			return "", false
		}
	}

	if !ordered(orig) {
		return "", false
	}

	source := targetNode.Orig.Source
	from := originalIndent(targetNode)
	cursor := targetNode.Pos.StartOffset

	var buf strings.Builder

	for idx, child := range orig {
		if child == nil {
			continue
		}

		lead := child.LeadStart()
		buf.WriteString(reindent(string(source[cursor:lead]), from, indent))

		childIndent := rebase(lineIndent(source, lead), from, indent)
		buf.WriteString(printer.renderLead(targetNode.Children[idx], childIndent))

		cursor = child.Pos.EndOffset
	}

	buf.WriteString(reindent(string(source[cursor:targetNode.Pos.EndOffset]), from, indent))

	return buf.String(), true
}

func hasHole(children []*jsast.Node) bool {
	for _, child := range children {
		if child == nil {
			return true
		}
	}

	return false
}

// ordered reports whether the parsed children occupy increasing,
// non-overlapping regions of the same source.
func ordered(children []*jsast.Node) bool {
	var (
		cursor uint
		source []byte
	)

	for _, child := range children {
		if child == nil {
			continue
		}

		if !child.Parsed() {
			return false
		}

		if source == nil {
			source = child.Orig.Source
		} else if !sameBuffer(source, child.Orig.Source) {
			return false
		}

		if child.LeadStart() < cursor {
			return false
		}

		cursor = child.Pos.EndOffset
	}

	return true
}

func sameBuffer(left, right []byte) bool {
	return len(left) == len(right) && (len(left) == 0 || &left[0] == &right[0])
}
