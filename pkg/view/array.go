package view

import (
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// ArrayView is a live view over an array literal or a call's argument list.
type ArrayView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindArray.
func (arr *ArrayView) Kind() Kind { return KindArray }

// Node returns the ArrayExpression or Arguments node.
func (arr *ArrayView) Node() *jsast.Node { return arr.node }

// Len returns the number of elements, holes included.
func (arr *ArrayView) Len() int {
	return len(arr.node.Children)
}

// Get returns the decoded element at index. Negative and out-of-range
// indexes return Undefined.
func (arr *ArrayView) Get(index int) (any, error) {
	if err := arr.checkIndexable("read element"); err != nil {
		return nil, err
	}

	if index < 0 || index >= len(arr.node.Children) {
		return Undefined, nil
	}

	return arr.ctx.decode(arr.node.Children[index])
}

// Set stores value at index, padding with holes when index is past the end.
func (arr *ArrayView) Set(index int, value any) error {
	if err := arr.checkIndexable("set element"); err != nil {
		return err
	}

	if index < 0 {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	encoded, err := encodeInto(arr.node, value)
	if err != nil {
		return err
	}

	for len(arr.node.Children) <= index {
		arr.node.AddChild(arr.hole())
	}

	arr.node.Children[index] = encoded

	return nil
}

// Delete leaves a hole at index, like the delete operator.
func (arr *ArrayView) Delete(index int) error {
	if err := arr.checkIndexable("delete element"); err != nil {
		return err
	}

	if index < 0 || index >= len(arr.node.Children) {
		return nil
	}

	arr.node.Children[index] = arr.hole()

	return nil
}

// Push appends values and returns the new length. Nothing is appended if
// any value fails to encode.
func (arr *ArrayView) Push(values ...any) (int, error) {
	encoded, err := arr.encodeAll(values)
	if err != nil {
		return 0, err
	}

	arr.node.Children = append(arr.node.Children, encoded...)

	return len(arr.node.Children), nil
}

// Pop removes and returns the last element, or Undefined when empty.
func (arr *ArrayView) Pop() (any, error) {
	if err := arr.checkIndexable("pop"); err != nil {
		return nil, err
	}

	if len(arr.node.Children) == 0 {
		return Undefined, nil
	}

	last := len(arr.node.Children) - 1

	value, err := arr.ctx.decode(arr.node.Children[last])
	if err != nil {
		return nil, err
	}

	arr.node.RemoveChildAt(last)

	return value, nil
}

// Shift removes and returns the first element, or Undefined when empty.
func (arr *ArrayView) Shift() (any, error) {
	if err := arr.checkIndexable("shift"); err != nil {
		return nil, err
	}

	if len(arr.node.Children) == 0 {
		return Undefined, nil
	}

	value, err := arr.ctx.decode(arr.node.Children[0])
	if err != nil {
		return nil, err
	}

	arr.node.RemoveChildAt(0)

	return value, nil
}

// Unshift prepends values and returns the new length.
func (arr *ArrayView) Unshift(values ...any) (int, error) {
	encoded, err := arr.encodeAll(values)
	if err != nil {
		return 0, err
	}

	arr.node.Children = slices.Insert(arr.node.Children, 0, encoded...)

	return len(arr.node.Children), nil
}

// Splice removes deleteCount elements at start, inserts items in their
// place and returns the removed elements. A negative start counts from the
// end; both arguments are clamped like Array.prototype.splice. The array is
// left untouched when an item cannot be encoded or a removed element
// cannot be decoded.
func (arr *ArrayView) Splice(start, deleteCount int, items ...any) ([]any, error) {
	if err := arr.checkIndexable("splice"); err != nil {
		return nil, err
	}

	length := len(arr.node.Children)

	if start < 0 {
		start = max(length+start, 0)
	}

	start = min(start, length)
	deleteCount = min(max(deleteCount, 0), length-start)

	encoded, err := arr.encodeAll(items)
	if err != nil {
		return nil, err
	}

	removed := make([]any, 0, deleteCount)

	for _, child := range arr.node.Children[start : start+deleteCount] {
		value, decodeErr := arr.ctx.decode(child)
		if decodeErr != nil {
			return nil, decodeErr
		}

		removed = append(removed, value)
	}

	arr.node.Children = slices.Replace(arr.node.Children, start, start+deleteCount, encoded...)

	return removed, nil
}

// All iterates over the decoded elements. Iteration stops at the first
// element that cannot be decoded, yielding its error.
func (arr *ArrayView) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if err := arr.checkIndexable("iterate"); err != nil {
			yield(nil, err)

			return
		}

		for idx := 0; idx < len(arr.node.Children); idx++ {
			value, err := arr.ctx.decode(arr.node.Children[idx])
			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(value, nil) {
				return
			}
		}
	}
}

// Values returns all decoded elements.
func (arr *ArrayView) Values() ([]any, error) {
	values := make([]any, 0, len(arr.node.Children))

	for value, err := range arr.All() {
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	return values, nil
}

// Snapshot returns the elements as a slice, recursively.
func (arr *ArrayView) Snapshot() (any, error) {
	values, err := arr.Values()
	if err != nil {
		return nil, err
	}

	result := make([]any, len(values))

	for idx, value := range values {
		plain, snapErr := Plain(value)
		if snapErr != nil {
			return nil, fmt.Errorf("snapshot [%d]: %w", idx, snapErr)
		}

		result[idx] = plain
	}

	return result, nil
}

// checkIndexable rejects positional access when a spread element makes
// the positions unknowable.
func (arr *ArrayView) checkIndexable(op string) error {
	for _, child := range arr.node.Children {
		if child != nil && child.Type == jsast.SpreadElement {
			arr.ctx.logger.Debug("rejected edit", "op", op, "reason", "spread element")

			return &StructuralEditError{Op: op, Reason: "array contains a spread element", Node: child}
		}
	}

	return nil
}

// hole returns the filler for missing elements. Argument lists cannot have
// holes, so they get `undefined`.
func (arr *ArrayView) hole() *jsast.Node {
	if arr.node.Type == jsast.Arguments {
		return jsast.NewIdentifier("undefined")
	}

	return nil
}

func (arr *ArrayView) encodeAll(values []any) ([]*jsast.Node, error) {
	encoded := make([]*jsast.Node, 0, len(values))

	for _, value := range values {
		node, err := encodeInto(arr.node, value)
		if err != nil {
			return nil, err
		}

		encoded = append(encoded, node)
	}

	return encoded, nil
}
