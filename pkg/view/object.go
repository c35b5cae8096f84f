package view

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// ObjectView is a live view over an object literal.
type ObjectView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindObject.
func (obj *ObjectView) Kind() Kind { return KindObject }

// Node returns the ObjectExpression node.
func (obj *ObjectView) Node() *jsast.Node { return obj.node }

// Get returns the decoded value of key, or Undefined when absent. Only
// the accessed property is decoded, so unsupported values elsewhere in
// the object do not matter.
func (obj *ObjectView) Get(key string) (any, error) {
	prop := obj.property(key)
	if prop == nil {
		return Undefined, nil
	}

	return obj.ctx.decode(prop.Child(1))
}

// Has reports whether key is present.
func (obj *ObjectView) Has(key string) bool {
	return obj.property(key) != nil
}

// Set replaces the value of key in place, or appends a new property after
// the existing ones.
func (obj *ObjectView) Set(key string, value any) error {
	encoded, err := encodeInto(obj.node, value)
	if err != nil {
		return err
	}

	if prop := obj.property(key); prop != nil {
		prop.Children[1] = encoded
		prop.SetFlag(jsast.PropMethod, false)

		if encoded.Type != jsast.Identifier || encoded.Token != prop.Child(0).Token {
			prop.SetFlag(jsast.PropShorthand, false)
		}

		return nil
	}

	obj.node.AddChild(newProperty(key, encoded))

	return nil
}

// Delete removes every property named key and reports whether any existed.
func (obj *ObjectView) Delete(key string) bool {
	before := len(obj.node.Children)

	obj.node.Children = slices.DeleteFunc(obj.node.Children, func(child *jsast.Node) bool {
		name, ok := propertyName(child)

		return ok && name == key
	})

	return len(obj.node.Children) != before
}

// Keys lists the static keys in source order. Spread elements and
// computed keys that are not string literals are skipped.
func (obj *ObjectView) Keys() []string {
	keys := make([]string, 0, len(obj.node.Children))
	seen := make(map[string]bool, len(obj.node.Children))

	for _, child := range obj.node.Children {
		name, ok := propertyName(child)
		if !ok || seen[name] {
			continue
		}

		seen[name] = true
		keys = append(keys, name)
	}

	return keys
}

// Len returns the number of static keys.
func (obj *ObjectView) Len() int {
	return len(obj.Keys())
}

// Snapshot returns the object as a map, recursively.
func (obj *ObjectView) Snapshot() (any, error) {
	result := make(map[string]any)

	for _, key := range obj.Keys() {
		value, err := obj.Get(key)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", key, err)
		}

		plain, err := Plain(value)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", key, err)
		}

		result[key] = plain
	}

	return result, nil
}

// Object returns the object stored under key.
func (obj *ObjectView) Object(key string) (*ObjectView, error) {
	return typedValue[*ObjectView](obj, key)
}

// Array returns the array stored under key.
func (obj *ObjectView) Array(key string) (*ArrayView, error) {
	return typedValue[*ArrayView](obj, key)
}

// Call returns the function call or new expression stored under key.
func (obj *ObjectView) Call(key string) (*CallView, error) {
	return typedValue[*CallView](obj, key)
}

// Comments returns the leading comments of the property named key, or nil
// when the key is absent.
func (obj *ObjectView) Comments(key string) *CommentView {
	prop := obj.property(key)
	if prop == nil {
		return nil
	}

	return &CommentView{node: prop}
}

func typedValue[T View](obj *ObjectView, key string) (T, error) {
	var zero T

	if !obj.Has(key) {
		return zero, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}

	value, err := obj.Get(key)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %s", ErrKindMismatch, key, describeValue(value))
	}

	return typed, nil
}

// property returns the last property named key, which is the one
// JavaScript would use.
func (obj *ObjectView) property(key string) *jsast.Node {
	for _, child := range slices.Backward(obj.node.Children) {
		if name, ok := propertyName(child); ok && name == key {
			return child
		}
	}

	return nil
}

// propertyName returns the static key of a Property node.
func propertyName(prop *jsast.Node) (string, bool) {
	if prop == nil || prop.Type != jsast.Property {
		return "", false
	}

	key := prop.Child(0)
	if key == nil {
		return "", false
	}

	computed := prop.Flag(jsast.PropComputed)

	switch key.Type {
	case jsast.Identifier:
		if computed {
			return "", false
		}

		return key.Token, true
	case jsast.StringLiteral, jsast.TemplateLiteral:
		return key.Token, true
	case jsast.NumericLiteral:
		value, err := parseNumber(key)
		if err != nil {
			return "", false
		}

		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return "", false
	}
}

func describeValue(value any) string {
	switch typed := value.(type) {
	case View:
		return string(typed.Kind())
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}
