package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func TestRenderDiffUnchanged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.False(t, renderDiff(&buf, "a.js", "x\ny\n", "x\ny\n", false))
	assert.Empty(t, buf.String())
}

func TestRenderDiffContext(t *testing.T) {
	t.Parallel()

	before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n"
	after := "1\n2\n3\n4\nfive\n6\n7\n8\n9\n"

	var buf bytes.Buffer

	require.True(t, renderDiff(&buf, "a.js", before, after, false))

	want := "--- a/a.js\n+++ b/a.js\n@@\n 3\n 4\n-5\n+five\n 6\n 7\n"
	assert.Equal(t, want, buf.String())
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want any
	}{
		{name: "int", in: "8080", want: 8080},
		{name: "bool", in: "true", want: true},
		{name: "string", in: "hello", want: "hello"},
		{name: "quoted number", in: `"8080"`, want: "8080"},
		{name: "null", in: "null", want: nil},
		{name: "list", in: "[1, two]", want: []any{1, "two"}},
		{
			name: "mapping keeps order",
			in:   "{b: 1, a: {c: x}}",
			want: view.Object{
				{Key: "b", Value: 1},
				{Key: "a", Value: view.Object{{Key: "c", Value: "x"}}},
			},
		},
		{name: "json", in: `{"z": [true]}`, want: view.Object{{Key: "z", Value: []any{true}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueError(t *testing.T) {
	t.Parallel()

	_, err := parseValue("{unclosed: [")
	require.Error(t, err)
}

func TestWriteStructuredYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, writeStructured(&buf, formatYAML, map[string]any{"port": 1}))
	assert.Equal(t, "port: 1\n", buf.String())
}

func TestPrintErrorCodeFrame(t *testing.T) {
	t.Parallel()

	mod, err := view.ParseModule(context.Background(), "import a from \"a\"\nexport default a\n")
	require.NoError(t, err)

	item, ok := mod.Imports().Get("a")
	require.True(t, ok)

	editErr := item.SetFrom("b")
	require.Error(t, editErr)

	var buf bytes.Buffer

	printError(&buf, editErr, true)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "error: "))
	assert.Contains(t, out, `> 1 | import a from "a"`)
	assert.Contains(t, out, "^")
}

func TestIsFocusLine(t *testing.T) {
	t.Parallel()

	assert.True(t, isFocusLine("> 3 | foo\n"))
	assert.True(t, isFocusLine("    |     ^\n"))
	assert.False(t, isFocusLine("  2 | bar\n"))
}
