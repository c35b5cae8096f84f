package textutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeshape/pkg/textutil"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	assert.False(t, textutil.IsBinary(nil))
	assert.False(t, textutil.IsBinary([]byte("export default {}\n")))
	assert.True(t, textutil.IsBinary([]byte("\x00asm")))
	assert.True(t, textutil.IsBinary([]byte("const a = 1\x00")))
}

func TestIsBinary_SniffBoundary(t *testing.T) {
	t.Parallel()

	atEdge := bytes.Repeat([]byte("a"), textutil.BinarySniffLength)
	atEdge[textutil.BinarySniffLength-1] = 0
	assert.True(t, textutil.IsBinary(atEdge))

	beyond := append(bytes.Repeat([]byte("a"), textutil.BinarySniffLength), 0)
	assert.False(t, textutil.IsBinary(beyond))
}

func TestTrimBOM(t *testing.T) {
	t.Parallel()

	withBOM := textutil.WithBOM([]byte("let a"))

	trimmed, found := textutil.TrimBOM(withBOM)
	assert.True(t, found)
	assert.Equal(t, "let a", string(trimmed))

	plain, found := textutil.TrimBOM([]byte("let a"))
	assert.False(t, found)
	assert.Equal(t, "let a", string(plain))
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single without newline", "a", 1},
		{"single with newline", "a\n", 1},
		{"two lines", "a\nb", 2},
		{"blank lines", "\n\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, textutil.CountLines([]byte(tt.input)))
		})
	}
}
