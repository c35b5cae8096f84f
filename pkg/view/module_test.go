package view_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsparse"
	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func TestGenerateWithoutEditsIsIdentical(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"export default {}\n",
		"import { defineConfig } from 'vite'\n\nexport default defineConfig({\n  plugins: [ vue() ],   // trailing\n})\n",
		"/* header */\nconst base = { a: 1 }\nexport default { ...base, b: [1,,3] } satisfies Config;\n",
		"export const x = `a${b}`\r\nexport let y\r\n",
	}

	for _, input := range inputs {
		mod := parseModule(t, input)
		assert.Equal(t, input, generate(t, mod))
	}
}

func TestGenerateAfterReadIsIdentical(t *testing.T) {
	t.Parallel()

	code := "export default {\n  nested: { deep: [1, 2] },\n  call: f(a, b),\n}\n"
	mod := parseModule(t, code)

	snapshot, err := mod.Snapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot)

	assert.Equal(t, code, generate(t, mod))
}

func TestViewIdentity(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default { a: { b: [1] } }\n")

	first, err := mod.Exports().Get("default")
	require.NoError(t, err)

	second, err := mod.Exports().Get("default")
	require.NoError(t, err)

	assert.Same(t, first, second)

	obj := defaultObject(t, mod)
	inner, err := obj.Object("a")
	require.NoError(t, err)

	require.NoError(t, obj.Set("other", 1))

	again, err := obj.Object("a")
	require.NoError(t, err)
	assert.Same(t, inner, again)

	viewOf, err := mod.ViewOf(inner.Node())
	require.NoError(t, err)
	assert.Same(t, inner, viewOf)
}

func TestGenerateFollowsDetectedStyle(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default {\n    name: 'demo'\n}\n")
	obj := defaultObject(t, mod)

	require.NoError(t, obj.Set("tags", view.Object{{Key: "kind", Value: "app"}}))

	want := "export default {\n    name: 'demo',\n    tags: {\n        kind: 'app'\n    }\n}\n"
	assert.Equal(t, want, generate(t, mod))
}

func TestGenerateWithStyleAndOverrides(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "export default {\n  name: 'demo'\n}\n")
	require.NoError(t, defaultObject(t, mod).Set("mode", "dev"))

	quote := codestyle.QuoteDouble

	result, err := mod.Generate(view.WithOverrides(codestyle.Overrides{Quote: &quote}))
	require.NoError(t, err)
	assert.Contains(t, result.Code, `mode: "dev"`)
	assert.Contains(t, result.Code, `name: 'demo'`)
	assert.Equal(t, codestyle.QuoteDouble, result.Style.Quote)

	profile := codestyle.DefaultProfile()
	profile.Quote = codestyle.QuoteSingle

	result, err = mod.Generate(view.WithStyle(profile))
	require.NoError(t, err)
	assert.Contains(t, result.Code, `mode: 'dev'`)
}

func TestParseModuleSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := view.ParseModule(context.Background(), "export default {", view.WithFilename("broken.ts"))
	require.ErrorIs(t, err, jsparse.ErrSyntax)
	assert.Contains(t, err.Error(), "broken.ts")
}

func TestParseModuleDialect(t *testing.T) {
	t.Parallel()

	code := "export default () => <div />\n"

	mod, err := view.ParseModule(context.Background(), code, view.WithFilename("App.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "App.tsx", mod.Filename())
	assert.Equal(t, code, mod.Source())
}

func TestNewModuleWrapsProgram(t *testing.T) {
	t.Parallel()

	parsed := parseModule(t, "export const a = 1\n")

	mod := view.NewModule(parsed.Program())

	value, err := mod.Exports().Get("a")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, value, 0)
	assert.Equal(t, view.KindModule, mod.Kind())
	assert.Equal(t, parsed.Source(), mod.Source())
}

func TestModuleSnapshot(t *testing.T) {
	t.Parallel()

	mod := parseModule(t, "import x from 'x'\nexport const port = 80\n")

	snapshot, err := mod.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"imports": map[string]any{
			"x": map[string]any{"local": "x", "imported": "default", "from": "x"},
		},
		"exports": map[string]any{"port": 80.0},
	}, snapshot)
}
