package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

const exportsSource = "export const a = 1, b = 2\nexport function f() {}\nconst c = { x: 1 }\nexport { c as d }\nexport default c\n"

func TestExportsKeys(t *testing.T) {
	t.Parallel()

	exports := parseModule(t, exportsSource).Exports()

	assert.Equal(t, []string{"a", "b", "f", "d", "default"}, exports.Keys())
	assert.True(t, exports.Has("f"))
	assert.False(t, exports.Has("c"))

	missing, err := exports.Get("c")
	require.NoError(t, err)
	assert.Equal(t, view.Undefined, missing)
}

func TestExportsResolveLocalBindings(t *testing.T) {
	t.Parallel()

	exports := parseModule(t, exportsSource).Exports()

	viaSpecifier, err := exports.Object("d")
	require.NoError(t, err)

	viaDefault, err := exports.Object("default")
	require.NoError(t, err)

	assert.Same(t, viaSpecifier, viaDefault)

	value, err := viaDefault.Get("x")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, value, 0)
}

func TestExportsSet(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, exportsSource)
	exports := mod.Exports()

	require.NoError(t, exports.Set("a", 10))
	require.NoError(t, exports.Set("d", 2))
	require.NoError(t, exports.Set("e", "x"))

	want := "export const a = 10, b = 2\nexport function f() {}\nconst c = 2\nexport { c as d }\nexport default c\n" +
		"export const e = \"x\"\n"
	assert.Equal(t, want, generate(t, mod))

	require.ErrorIs(t, exports.Set("not-valid", 1), view.ErrInvalidName)
}

func TestExportsDelete(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, exportsSource)
	exports := mod.Exports()

	assert.True(t, exports.Delete("a"))
	assert.True(t, exports.Delete("f"))
	assert.True(t, exports.Delete("d"))
	assert.False(t, exports.Delete("missing"))

	assert.Equal(t, []string{"b", "default"}, exports.Keys())
	assert.Equal(t, "export const b = 2\nconst c = { x: 1 }\nexport default c\n", generate(t, mod))
}

func TestExportsReExportIsReadOnly(t *testing.T) {
	t.Parallel()

	exports := parseModule(t, "export { foo } from \"./foo\"\n").Exports()

	assert.Equal(t, []string{"foo"}, exports.Keys())
	require.ErrorIs(t, exports.Set("foo", 1), view.ErrStructuralEdit)
}

func TestExportsSetDefaultAppends(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export const a = 1\n")

	require.NoError(t, mod.Exports().Set("default", view.Object{{Key: "k", Value: 1}}))
	assert.Equal(t, "export const a = 1\nexport default {\n  k: 1\n}\n", generate(t, mod))
}

func TestExportsComments(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "const c = {}\n\nexport default c\n")
	exports := mod.Exports()

	comments := exports.Comments("default")
	require.NotNil(t, comments)
	comments.Set("config")

	assert.Nil(t, exports.Comments("missing"))
	assert.Equal(t, "const c = {}\n\n// config\nexport default c\n", generate(t, mod))
}

func TestExportsSnapshot(t *testing.T) {
	t.Parallel()

	snapshot, err := parseModule(t, "export const name = 'app'\nexport default { port: 80 }\n").Exports().Snapshot()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":    "app",
		"default": map[string]any{"port": 80.0},
	}, snapshot)
}
