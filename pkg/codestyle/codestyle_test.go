package codestyle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
)

func TestDetect_SingleQuotesNoSemicolons(t *testing.T) {
	t.Parallel()

	source := `import { defineConfig } from 'vite'
import vue from '@vitejs/plugin-vue'

export default defineConfig({
  plugins: [vue()],
  base: './',
})
`

	profile := codestyle.Detect(source, codestyle.Overrides{})

	assert.Equal(t, codestyle.QuoteSingle, profile.Quote)
	assert.False(t, profile.UseSemi)
	assert.Equal(t, 2, profile.TabWidth)
	assert.False(t, profile.UseTabs)
	assert.True(t, profile.TrailingComma)
}

func TestDetect_DoubleQuotesWithSemicolons(t *testing.T) {
	t.Parallel()

	source := "const a = \"x\";\nconst b = \"y\";\nfunction f() {\n    return a;\n}\n"

	profile := codestyle.Detect(source, codestyle.Overrides{})

	assert.Equal(t, codestyle.QuoteDouble, profile.Quote)
	assert.True(t, profile.UseSemi)
	assert.Equal(t, 4, profile.TabWidth)
}

func TestDetect_EmptySourceUsesBaseline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, codestyle.DefaultProfile(), codestyle.Detect("", codestyle.Overrides{}))
}

func TestDetect_Tabs(t *testing.T) {
	t.Parallel()

	profile := codestyle.Detect("export default {\n\ta: 1,\n\tb: 2,\n}\n", codestyle.Overrides{})

	assert.True(t, profile.UseTabs)
	assert.Equal(t, "\t", profile.Indent())
}

func TestDetect_ArrowParens(t *testing.T) {
	t.Parallel()

	avoid := codestyle.Detect("const f = x => x\nconst g = y => y\n", codestyle.Overrides{})
	assert.Equal(t, codestyle.ArrowParensAvoid, avoid.ArrowParens)

	always := codestyle.Detect("const f = (x) => x\n", codestyle.Overrides{})
	assert.Equal(t, codestyle.ArrowParensAlways, always.ArrowParens)
}

func TestDetect_WrapColumnFollowsLongestLine(t *testing.T) {
	t.Parallel()

	long := "const value = '" +
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa'\n"

	profile := codestyle.Detect(long, codestyle.Overrides{})

	assert.Equal(t, len(long)-1, profile.WrapColumn)
}

func TestDetect_WrapColumnKeepsDefaultForShortLines(t *testing.T) {
	t.Parallel()

	profile := codestyle.Detect("export default { a: 1 }\n", codestyle.Overrides{})

	assert.Equal(t, codestyle.DefaultWrapColumn, profile.WrapColumn)
}

func TestDetect_OverridesAlwaysWin(t *testing.T) {
	t.Parallel()

	quote := codestyle.QuoteDouble
	semi := true
	width := 8
	tabs := false
	trailing := false
	wrap := 120
	arrow := codestyle.ArrowParensAlways

	source := "\tconst a = 'x'\n\tconst f = x => x,\n]\n"
	profile := codestyle.Detect(source, codestyle.Overrides{
		Quote:         &quote,
		UseSemi:       &semi,
		TabWidth:      &width,
		UseTabs:       &tabs,
		TrailingComma: &trailing,
		WrapColumn:    &wrap,
		ArrowParens:   &arrow,
	})

	assert.Equal(t, codestyle.Profile{
		Quote:         quote,
		ArrowParens:   arrow,
		TabWidth:      width,
		WrapColumn:    wrap,
		UseTabs:       tabs,
		UseSemi:       semi,
		TrailingComma: trailing,
	}, profile)
}

func TestProfile_IndentDefaultsWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  ", codestyle.Profile{}.Indent())
	assert.Equal(t, "    ", codestyle.Profile{TabWidth: 4}.Indent())
}
