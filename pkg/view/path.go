package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// ErrInvalidPath is returned for malformed path expressions.
var ErrInvalidPath = errors.New("invalid path")

// Segment is one step of a Path: a property key or an element index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (seg Segment) String() string {
	if seg.IsIndex {
		return "[" + strconv.Itoa(seg.Index) + "]"
	}

	if jsast.IsIdentifierName(seg.Key) {
		return "." + seg.Key
	}

	return "[" + strconv.Quote(seg.Key) + "]"
}

// Path addresses a value inside a module's exports, starting with the
// export name: `default.plugins[0].name`, `config["@scope/pkg"]`.
type Path []Segment

func (path Path) String() string {
	var buf strings.Builder

	for idx, seg := range path {
		if idx == 0 && !seg.IsIndex && jsast.IsIdentifierName(seg.Key) {
			buf.WriteString(seg.Key)

			continue
		}

		buf.WriteString(seg.String())
	}

	return buf.String()
}

// ParsePath parses a dotted path with bracketed indexes and quoted keys.
func ParsePath(text string) (Path, error) {
	var path Path

	rest := text
	expectKey := true

	for rest != "" {
		switch {
		case rest[0] == '[':
			seg, consumed, err := parseBracket(rest)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, text, err)
			}

			path = append(path, seg)
			rest = rest[consumed:]
			expectKey = false
		case rest[0] == '.' && !expectKey:
			rest = rest[1:]
			expectKey = true
		case expectKey:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}

			if end == 0 {
				return nil, fmt.Errorf("%w %q: empty key", ErrInvalidPath, text)
			}

			path = append(path, Segment{Key: rest[:end]})
			rest = rest[end:]
			expectKey = false
		default:
			return nil, fmt.Errorf("%w %q: unexpected %q", ErrInvalidPath, text, rest[:1])
		}
	}

	if len(path) == 0 || expectKey {
		return nil, fmt.Errorf("%w %q: incomplete", ErrInvalidPath, text)
	}

	if path[0].IsIndex {
		return nil, fmt.Errorf("%w %q: must start with an export name", ErrInvalidPath, text)
	}

	return path, nil
}

func parseBracket(text string) (Segment, int, error) {
	closing := strings.IndexByte(text, ']')
	if closing < 0 {
		return Segment{}, 0, errors.New("unclosed bracket")
	}

	inner := strings.TrimSpace(text[1:closing])

	if inner != "" && (inner[0] == '"' || inner[0] == '\'') {
		end := closingQuote(text, inner[0])
		if end < 0 {
			return Segment{}, 0, errors.New("unterminated quoted key")
		}

		raw := text[strings.IndexByte(text, inner[0]) : end+1]
		if raw[0] == '\'' {
			body := strings.ReplaceAll(raw[1:len(raw)-1], `\'`, `'`)
			raw = `"` + strings.ReplaceAll(body, `"`, `\"`) + `"`
		}

		key, err := strconv.Unquote(raw)
		if err != nil {
			return Segment{}, 0, fmt.Errorf("quoted key: %w", err)
		}

		after := strings.TrimLeft(text[end+1:], " ")
		if !strings.HasPrefix(after, "]") {
			return Segment{}, 0, errors.New("expected ] after quoted key")
		}

		return Segment{Key: key}, len(text) - len(after) + 1, nil
	}

	index, err := strconv.Atoi(inner)
	if err != nil || index < 0 {
		return Segment{}, 0, fmt.Errorf("bad index %q", inner)
	}

	return Segment{Index: index, IsIndex: true}, closing + 1, nil
}

// closingQuote returns the offset of the quote ending the key that starts
// after the opening bracket, skipping escaped quotes.
func closingQuote(text string, quote byte) int {
	start := strings.IndexByte(text, quote)

	for idx := start + 1; idx < len(text); idx++ {
		switch text[idx] {
		case '\\':
			idx++
		case quote:
			return idx
		}
	}

	return -1
}

// Lookup returns the decoded value at path, or Undefined when a step is
// missing.
func (mod *Module) Lookup(path Path) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	current, err := mod.exports.Get(path[0].Key)
	if err != nil {
		return nil, err
	}

	for idx, seg := range path[1:] {
		if current == Undefined {
			return Undefined, nil
		}

		current, err = step(current, seg, path[:idx+2])
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

// SetPath stores value at path. The parent of the last step must exist.
func (mod *Module) SetPath(path Path, value any) error {
	if len(path) == 1 {
		return mod.exports.Set(path[0].Key, value)
	}

	parent, err := mod.parentOf(path)
	if err != nil {
		return err
	}

	last := path[len(path)-1]

	switch container := parent.(type) {
	case *ObjectView:
		if last.IsIndex {
			return container.Set(strconv.Itoa(last.Index), value)
		}

		return container.Set(last.Key, value)
	case *ArrayView:
		if !last.IsIndex {
			return kindMismatch(path, parent, "an index")
		}

		return container.Set(last.Index, value)
	case *CallView:
		if !last.IsIndex {
			return kindMismatch(path, parent, "an argument index")
		}

		return container.Arguments().Set(last.Index, value)
	default:
		return kindMismatch(path, parent, "an object or array")
	}
}

// DeletePath removes the value at path and reports whether it existed.
// Array elements and call arguments are spliced out rather than left as
// holes.
func (mod *Module) DeletePath(path Path) (bool, error) {
	if len(path) == 1 {
		return mod.exports.Delete(path[0].Key), nil
	}

	parent, err := mod.parentOf(path)
	if err != nil {
		return false, err
	}

	last := path[len(path)-1]

	var elements *ArrayView

	switch container := parent.(type) {
	case *ObjectView:
		if last.IsIndex {
			return container.Delete(strconv.Itoa(last.Index)), nil
		}

		return container.Delete(last.Key), nil
	case *ArrayView:
		elements = container
	case *CallView:
		elements = container.Arguments()
	default:
		return false, kindMismatch(path, parent, "an object or array")
	}

	if !last.IsIndex {
		return false, kindMismatch(path, parent, "an index")
	}

	if last.Index >= elements.Len() {
		return false, nil
	}

	_, err = elements.Splice(last.Index, 1)

	return err == nil, err
}

func (mod *Module) parentOf(path Path) (any, error) {
	parent, err := mod.Lookup(path[:len(path)-1])
	if err != nil {
		return nil, err
	}

	if parent == Undefined {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path[:len(path)-1])
	}

	return parent, nil
}

func step(current any, seg Segment, where Path) (any, error) {
	switch container := current.(type) {
	case *ObjectView:
		if seg.IsIndex {
			return container.Get(strconv.Itoa(seg.Index))
		}

		return container.Get(seg.Key)
	case *ArrayView:
		if !seg.IsIndex {
			return nil, kindMismatch(where, current, "an index")
		}

		return container.Get(seg.Index)
	case *CallView:
		if !seg.IsIndex {
			return nil, kindMismatch(where, current, "an argument index")
		}

		return container.Arguments().Get(seg.Index)
	default:
		return nil, kindMismatch(where, current, "an object or array")
	}
}

func kindMismatch(where Path, value any, want string) error {
	return fmt.Errorf("%w: %s expects %s but %s holds %s",
		ErrKindMismatch, where, want, where[:len(where)-1], describeValue(value))
}
