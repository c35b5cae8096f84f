package jsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: `"abc"`, want: "abc"},
		{name: "single quotes", raw: `'it\'s'`, want: "it's"},
		{name: "newline", raw: `"a\nb"`, want: "a\nb"},
		{name: "hex", raw: `"\x41"`, want: "A"},
		{name: "unicode", raw: `"\u00e9"`, want: "é"},
		{name: "code point", raw: `"\u{1F600}"`, want: "😀"},
		{name: "line continuation", raw: "\"a\\\nb\"", want: "ab"},
		{name: "malformed hex kept", raw: `"\xZZ"`, want: `\xZZ`},
		{name: "template", raw: "`a\\tb`", want: "a\tb"},
		{name: "escaped backslash", raw: `"a\\b"`, want: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cookString(tt.raw))
		})
	}
}
