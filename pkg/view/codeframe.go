package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
	"github.com/Sumatoshi-tech/codeshape/pkg/safeconv"
)

// Sentinel errors for view operations.
var (
	ErrUnsupportedNode   = errors.New("unsupported node")
	ErrCircularReference = errors.New("circular reference")
	ErrStructuralEdit    = errors.New("unsupported structural edit")
	ErrUnsupportedValue  = errors.New("unsupported value")
	ErrNotFound          = errors.New("not found")
	ErrKindMismatch      = errors.New("kind mismatch")
	ErrInvalidName       = errors.New("invalid name")
	ErrImportExists      = errors.New("import already exists")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// codeFrameContext is the number of lines shown above and below the
// offending line in a code frame.
const codeFrameContext = 3

// UnsupportedNodeError is returned when a node kind has no view.
type UnsupportedNodeError struct {
	Node *jsast.Node
}

// Error implements error.
func (unsupportedErr *UnsupportedNodeError) Error() string {
	if unsupportedErr.Node == nil {
		return "unsupported node: <nil>"
	}

	return fmt.Sprintf("unsupported node %s%s", describe(unsupportedErr.Node), location(unsupportedErr.Node))
}

// Unwrap returns ErrUnsupportedNode.
func (unsupportedErr *UnsupportedNodeError) Unwrap() error {
	return ErrUnsupportedNode
}

// CodeFrame renders the source around the node.
func (unsupportedErr *UnsupportedNodeError) CodeFrame() string {
	return CodeFrame(unsupportedErr.Node)
}

// CircularReferenceError is returned when a value graph being encoded
// reaches itself, or when a node would be inserted into its own subtree.
type CircularReferenceError struct {
	Node *jsast.Node
	Path string
}

// Error implements error.
func (circularErr *CircularReferenceError) Error() string {
	if circularErr.Path != "" {
		return "circular reference at " + circularErr.Path
	}

	return "circular reference: node would contain itself"
}

// Unwrap returns ErrCircularReference.
func (circularErr *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// CodeFrame renders the source around the node, if any.
func (circularErr *CircularReferenceError) CodeFrame() string {
	return CodeFrame(circularErr.Node)
}

// StructuralEditError is returned for edits the model rejects, such as
// changing an import's source or indexing an array with a spread element.
type StructuralEditError struct {
	Node   *jsast.Node
	Op     string
	Reason string
}

// Error implements error.
func (editErr *StructuralEditError) Error() string {
	return fmt.Sprintf("cannot %s: %s%s", editErr.Op, editErr.Reason, location(editErr.Node))
}

// Unwrap returns ErrStructuralEdit.
func (editErr *StructuralEditError) Unwrap() error {
	return ErrStructuralEdit
}

// CodeFrame renders the source around the node.
func (editErr *StructuralEditError) CodeFrame() string {
	return CodeFrame(editErr.Node)
}

func describe(targetNode *jsast.Node) string {
	if targetNode.Type == jsast.Opaque && targetNode.Token != "" {
		return strconv.Quote(targetNode.Token)
	}

	return string(targetNode.Type)
}

func location(targetNode *jsast.Node) string {
	if targetNode == nil || targetNode.Pos == nil || targetNode.Orig == nil {
		return ""
	}

	return fmt.Sprintf(" at %d:%d", targetNode.Pos.StartLine, targetNode.Pos.StartCol)
}

// CodeFrame renders up to three lines of source above and below the line
// where targetNode starts, with a caret under its start column. It returns
// "" for nodes without a source position.
func CodeFrame(targetNode *jsast.Node) string {
	if targetNode == nil || targetNode.Pos == nil || targetNode.Orig == nil || targetNode.Pos.StartLine == 0 {
		return ""
	}

	lines := strings.Split(string(targetNode.Orig.Source), "\n")
	line := safeconv.MustUintToInt(targetNode.Pos.StartLine)

	if line > len(lines) {
		return ""
	}

	first := max(1, line-codeFrameContext)
	last := min(len(lines), line+codeFrameContext)
	width := len(strconv.Itoa(last))

	var buf strings.Builder

	for current := first; current <= last; current++ {
		marker := "  "
		if current == line {
			marker = "> "
		}

		text := strings.TrimRight(lines[current-1], "\r")
		fmt.Fprintf(&buf, "%s%*d | %s\n", marker, width, current, text)

		if current == line {
			caretPad := caretPadding(text, safeconv.MustUintToInt(targetNode.Pos.StartCol)-1)
			fmt.Fprintf(&buf, "  %s | %s^\n", strings.Repeat(" ", width), caretPad)
		}
	}

	return strings.TrimRight(buf.String(), "\n")
}

// caretPadding keeps tabs so the caret lines up under tab-indented code.
func caretPadding(line string, column int) string {
	column = min(max(column, 0), len(line))

	var pad strings.Builder

	for _, ch := range []byte(line[:column]) {
		if ch == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	return pad.String()
}
