package safeconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeshape/pkg/safeconv"
)

func TestMustUintToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, safeconv.MustUintToInt(0))
	assert.Equal(t, 42, safeconv.MustUintToInt(42))
	assert.Equal(t, safeconv.MaxInt, safeconv.MustUintToInt(uint(safeconv.MaxInt)))

	assert.PanicsWithValue(t, "safeconv: offset overflows int", func() {
		safeconv.MustUintToInt(uint(safeconv.MaxInt) + 1)
	})
}

func TestMustIntToUint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint(7), safeconv.MustIntToUint(7))

	assert.PanicsWithValue(t, "safeconv: negative offset", func() {
		safeconv.MustIntToUint(-1)
	})
}

func TestSpan(t *testing.T) {
	t.Parallel()

	source := []byte("export default {}")

	tests := []struct {
		name       string
		start, end uint
		want       string
		ok         bool
	}{
		{name: "inside", start: 7, end: 14, want: "default", ok: true},
		{name: "empty", start: 3, end: 3, want: "", ok: true},
		{name: "whole", start: 0, end: 17, want: "export default {}", ok: true},
		{name: "past end", start: 10, end: 18},
		{name: "reversed", start: 5, end: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, ok := safeconv.Span(source, tt.start, tt.end)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, string(span))
		})
	}
}
