package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

const objectSource = "export default {\n  a: 1,\n  b: 'two',\n}\n"

func TestObjectRead(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, objectSource))

	assert.Equal(t, view.KindObject, obj.Kind())
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())
	assert.True(t, obj.Has("b"))
	assert.False(t, obj.Has("c"))

	value, err := obj.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "two", value)

	missing, err := obj.Get("c")
	require.NoError(t, err)
	assert.Equal(t, view.Undefined, missing)
}

func TestObjectSetInPlaceAndAppend(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, objectSource)
	obj := defaultObject(t, mod)

	require.NoError(t, obj.Set("a", 10))
	require.NoError(t, obj.Set("c", true))
	require.NoError(t, obj.Set("d", "x"))

	assert.Equal(t, []string{"a", "b", "c", "d"}, obj.Keys())
	assert.Equal(t, "export default {\n  a: 10,\n  b: 'two',\n  c: true,\n  d: 'x',\n}\n", generate(t, mod))
}

func TestObjectDelete(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default {\n  a: 1,\n  b: 2,\n  c: 3,\n}\n")
	obj := defaultObject(t, mod)

	assert.True(t, obj.Delete("b"))
	assert.False(t, obj.Delete("b"))

	assert.Equal(t, "export default {\n  a: 1,\n  c: 3,\n}\n", generate(t, mod))
}

func TestObjectDuplicateKeysLastWins(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, "export default { a: 1, 'a': 2, [k]: 3, ...rest }\n"))

	value, err := obj.Get("a")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, value, 0)
	assert.Equal(t, []string{"a"}, obj.Keys())
}

func TestObjectNumericAndQuotedKeys(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, "export default { 1: 'one', 'x-y': 2, 0x10: 'hex' }\n"))

	assert.Equal(t, []string{"1", "x-y", "16"}, obj.Keys())

	value, err := obj.Get("16")
	require.NoError(t, err)
	assert.Equal(t, "hex", value)
}

func TestObjectShorthandBecomesPair(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "const a = 1\nexport default { a }\n")

	require.NoError(t, defaultObject(t, mod).Set("a", 2))
	assert.Equal(t, "const a = 1\nexport default { a: 2 }\n", generate(t, mod))
}

func TestObjectTypedAccessors(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, "export default { list: [1], call: f(), obj: {} }\n"))

	_, err := obj.Array("list")
	require.NoError(t, err)

	call, err := obj.Call("call")
	require.NoError(t, err)
	assert.Equal(t, "f", call.CalleeName())

	_, err = obj.Object("list")
	require.ErrorIs(t, err, view.ErrKindMismatch)

	_, err = obj.Array("missing")
	require.ErrorIs(t, err, view.ErrNotFound)
}

func TestObjectComments(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default {\n  // old\n  a: 1,\n  b: 2,\n}\n")
	obj := defaultObject(t, mod)

	comments := obj.Comments("a")
	require.NotNil(t, comments)
	assert.Equal(t, "old", comments.Text())

	comments.Set("first\nsecond")
	obj.Comments("b").SetBlock("* block")

	assert.Nil(t, obj.Comments("missing"))

	want := "export default {\n  // first\n  // second\n  a: 1,\n  /** block */\n  b: 2,\n}\n"
	assert.Equal(t, want, generate(t, mod))
}

func TestObjectSnapshot(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, "export default { a: { b: [1, 'x', null, true] }, c: defineX(1) }\n"))

	snapshot, err := obj.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": []any{1.0, "x", nil, true}},
		"c": map[string]any{"$type": "function-call", "$callee": "defineX", "$args": []any{1.0}},
	}, snapshot)
}

func TestObjectSetRejectsSelf(t *testing.T) {
	t.Parallel()

	obj := defaultObject(t, parseModule(t, "export default { a: 1 }\n"))

	err := obj.Set("self", obj)
	require.ErrorIs(t, err, view.ErrCircularReference)
}

func TestObjectMoveBetweenKeysSharesNode(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default { a: { x: 1 }, b: null }\n")
	obj := defaultObject(t, mod)

	inner, err := obj.Object("a")
	require.NoError(t, err)

	require.NoError(t, obj.Set("b", inner))
	require.NoError(t, inner.Set("x", 2))

	assert.Equal(t, "export default { a: { x: 2 }, b: { x: 2 } }\n", generate(t, mod))
}
