package view_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func parseModule(t *testing.T, code string) *view.Module {
	t.Helper()

	mod, err := view.ParseModule(context.Background(), code, view.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	return mod
}

func generate(t *testing.T, mod *view.Module) string {
	t.Helper()

	result, err := mod.Generate()
	require.NoError(t, err)

	return result.Code
}

// encodeText prints value the way it appears when exported from an empty
// module with the default style.
func encodeText(t *testing.T, value any) string {
	t.Helper()

	mod := parseModule(t, "")
	require.NoError(t, mod.Exports().Set("x", value))

	code := generate(t, mod)
	code = strings.TrimPrefix(code, "export const x = ")

	return strings.TrimSuffix(code, ";\n")
}

func defaultObject(t *testing.T, mod *view.Module) *view.ObjectView {
	t.Helper()

	obj, err := mod.Exports().Object("default")
	require.NoError(t, err)

	return obj
}

func defaultArray(t *testing.T, mod *view.Module) *view.ArrayView {
	t.Helper()

	value, err := mod.Exports().Get("default")
	require.NoError(t, err)

	arr, ok := value.(*view.ArrayView)
	require.True(t, ok, "default export is %T", value)

	return arr
}
