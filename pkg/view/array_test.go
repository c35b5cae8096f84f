package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func TestArraySplice(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default [1, 2, 3, 4, 5]\n")
	arr := defaultArray(t, mod)

	removed, err := arr.Splice(1, 2, "x")
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3.0}, removed)

	values, err := arr.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "x", 4.0, 5.0}, values)

	assert.Equal(t, "export default [1, \"x\", 4, 5]\n", generate(t, mod))
}

func TestArraySpliceClamps(t *testing.T) {
	t.Parallel()

	arr := defaultArray(t, parseModule(t, "export default [1, 2, 3, 4, 5]\n"))

	removed, err := arr.Splice(-2, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{4.0}, removed)

	removed, err = arr.Splice(10, 3, 6)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = arr.Splice(0, -1)
	require.NoError(t, err)
	assert.Empty(t, removed)

	values, err := arr.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0, 5.0, 6.0}, values)
}

func TestArrayStackOperations(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default ['b']\n")
	arr := defaultArray(t, mod)

	length, err := arr.Push("c", "d")
	require.NoError(t, err)
	assert.Equal(t, 3, length)

	length, err = arr.Unshift("a")
	require.NoError(t, err)
	assert.Equal(t, 4, length)

	last, err := arr.Pop()
	require.NoError(t, err)
	assert.Equal(t, "d", last)

	first, err := arr.Shift()
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	assert.Equal(t, "export default ['b', 'c']\n", generate(t, mod))

	empty := defaultArray(t, parseModule(t, "export default []\n"))

	popped, err := empty.Pop()
	require.NoError(t, err)
	assert.Equal(t, view.Undefined, popped)
}

func TestArraySetPadsWithHoles(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default [1]\n")
	arr := defaultArray(t, mod)

	require.NoError(t, arr.Set(3, "x"))
	assert.Equal(t, 4, arr.Len())

	hole, err := arr.Get(1)
	require.NoError(t, err)
	assert.Equal(t, view.Undefined, hole)

	assert.Equal(t, "export default [1, , , \"x\"]\n", generate(t, mod))

	require.ErrorIs(t, arr.Set(-1, 0), view.ErrIndexOutOfRange)
}

func TestArrayDeleteLeavesHole(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default [1, 2, 3]\n")
	arr := defaultArray(t, mod)

	require.NoError(t, arr.Delete(1))
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, "export default [1, , 3]\n", generate(t, mod))
}

func TestArraySpreadRejectsPositionalAccess(t *testing.T) {
	t.Parallel()

	arr := defaultArray(t, parseModule(t, "export default [\n  ...base,\n  1,\n]\n"))

	_, err := arr.Get(0)
	require.ErrorIs(t, err, view.ErrStructuralEdit)

	var editErr *view.StructuralEditError
	require.ErrorAs(t, err, &editErr)
	assert.Contains(t, editErr.CodeFrame(), "> 2 |   ...base,")

	_, err = arr.Splice(0, 1)
	require.ErrorIs(t, err, view.ErrStructuralEdit)

	length, err := arr.Push(2)
	require.NoError(t, err)
	assert.Equal(t, 3, length)
}

func TestArrayIterationStopsAtFirstError(t *testing.T) {
	t.Parallel()

	arr := defaultArray(t, parseModule(t, "export default [1, class {}, 2]\n"))

	var (
		seen []any
		errs []error
	)

	for value, err := range arr.All() {
		if err != nil {
			errs = append(errs, err)

			continue
		}

		seen = append(seen, value)
	}

	assert.Equal(t, []any{1.0}, seen)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], view.ErrUnsupportedNode)

	_, err := arr.Values()
	require.ErrorIs(t, err, view.ErrUnsupportedNode)
}

func TestArrayFailedRemovalKeepsElements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		remove func(arr *view.ArrayView) error
	}{
		{
			name:   "splice",
			source: "export default [1, class {}, 2]\n",
			remove: func(arr *view.ArrayView) error {
				_, err := arr.Splice(0, 2, "x")

				return err
			},
		},
		{
			name:   "pop",
			source: "export default [1, class {}]\n",
			remove: func(arr *view.ArrayView) error {
				_, err := arr.Pop()

				return err
			},
		},
		{
			name:   "shift",
			source: "export default [class {}, 1]\n",
			remove: func(arr *view.ArrayView) error {
				_, err := arr.Shift()

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod := parseModule(t, tt.source)
			arr := defaultArray(t, mod)
			length := arr.Len()

			require.ErrorIs(t, tt.remove(arr), view.ErrUnsupportedNode)
			assert.Equal(t, length, arr.Len())
			assert.Equal(t, tt.source, generate(t, mod))
		})
	}
}

func TestArrayIterationEarlyBreak(t *testing.T) {
	t.Parallel()

	arr := defaultArray(t, parseModule(t, "export default [1, 2, 3]\n"))

	count := 0

	for range arr.All() {
		count++

		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestCallArguments(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default f(a)\n")

	call, err := mod.Exports().Call("default")
	require.NoError(t, err)

	require.NoError(t, call.Arguments().Set(2, 1))
	assert.Equal(t, "export default f(a, undefined, 1)\n", generate(t, mod))

	assert.Same(t, call.Arguments(), call.Arguments())
}

func TestCallEmptyArguments(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default defineConfig()\n")

	call, err := mod.Exports().Call("default")
	require.NoError(t, err)
	assert.Equal(t, 0, call.Arguments().Len())

	_, err = call.Arguments().Push(view.Object{{Key: "a", Value: 1}})
	require.NoError(t, err)

	require.NoError(t, call.SetCallee("vite.defineConfig"))

	assert.Equal(t, "export default vite.defineConfig({\n  a: 1\n})\n", generate(t, mod))
}
