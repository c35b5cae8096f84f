// Package view exposes parsed JavaScript modules as live objects, arrays
// and call descriptors. Views are thin projections over jsast nodes: every
// read recomputes from the tree and every write edits the tree in place,
// so printing the module afterwards only changes what was edited.
package view

import "github.com/Sumatoshi-tech/codeshape/pkg/jsast"

// Kind tags the capability set of a View.
type Kind string

// View kinds.
const (
	KindObject          Kind = "object"
	KindArray           Kind = "array"
	KindFunctionCall    Kind = "function-call"
	KindNewExpression   Kind = "new-expression"
	KindIdentifier      Kind = "identifier"
	KindBinary          Kind = "binary-expression"
	KindLogical         Kind = "logical-expression"
	KindMember          Kind = "member-expression"
	KindBlock           Kind = "block-statement"
	KindFunction        Kind = "function-expression"
	KindArrowFunction   Kind = "arrow-function-expression"
	KindModule          Kind = "module"
	KindExports         Kind = "exports"
	KindImports         Kind = "imports"
	KindImport          Kind = "import"
	KindComment         Kind = "comment"
)

// Keys used in snapshots of views that have no plain value.
const (
	snapshotTypeKey      = "$type"
	snapshotCalleeKey    = "$callee"
	snapshotArgumentsKey = "$args"
)

// View is a handle over exactly one tree node.
type View interface {
	Kind() Kind
	Node() *jsast.Node
}

// Snapshotter is implemented by views that can produce a plain Go value
// (maps, slices and primitives) of their current content.
type Snapshotter interface {
	Snapshot() (any, error)
}

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// String implements fmt.Stringer.
func (UndefinedValue) String() string { return "undefined" }

// Undefined stands for the JavaScript undefined value. It is returned for
// missing keys, array holes and the `undefined` identifier, and encodes
// back to `undefined`.
var Undefined = UndefinedValue{} //nolint:gochecknoglobals // sentinel value.

// Entry is a key/value pair of an Object.
type Entry struct {
	Key   string
	Value any
}

// Object is an object literal with a fixed key order.
type Object []Entry

// Set encodes to `new Set([...])`.
type Set []any

// MapEntry is a key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map encodes to `new Map([[key, value], ...])`.
type Map []MapEntry

// Plain converts a decoded value into maps, slices and primitives.
func Plain(value any) (any, error) {
	switch typed := value.(type) {
	case Snapshotter:
		return typed.Snapshot()
	case View:
		return map[string]any{snapshotTypeKey: string(typed.Kind())}, nil
	default:
		return value, nil
	}
}
