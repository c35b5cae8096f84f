package jsparse

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// cookString strips the surrounding quotes from a string or template
// literal and resolves its escape sequences. Malformed escapes are kept
// verbatim.
func cookString(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}

	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var buf strings.Builder

	buf.Grow(len(raw))

	for idx := 0; idx < len(raw); idx++ {
		ch := raw[idx]
		if ch != '\\' || idx+1 >= len(raw) {
			buf.WriteByte(ch)

			continue
		}

		idx++
		consumed := cookEscape(&buf, raw, idx)
		idx += consumed
	}

	return buf.String()
}

// cookEscape writes the character for the escape starting at raw[idx]
// (just after the backslash) and returns how many extra bytes it used.
func cookEscape(buf *strings.Builder, raw string, idx int) int {
	switch raw[idx] {
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'r':
		buf.WriteByte('\r')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'v':
		buf.WriteByte('\v')
	case '0':
		buf.WriteByte(0)
	case '\r':
		if idx+1 < len(raw) && raw[idx+1] == '\n' {
			return 1
		}
	case '\n':
	case 'x':
		return writeCodePoint(buf, raw, idx, idx+1, idx+3)
	case 'u':
		if idx+1 < len(raw) && raw[idx+1] == '{' {
			end := strings.IndexByte(raw[idx:], '}')
			if end < 0 {
				buf.WriteString(`\u`)

				return 0
			}

			return writeCodePoint(buf, raw, idx, idx+2, idx+end) + 1
		}

		return writeCodePoint(buf, raw, idx, idx+1, idx+5)
	default:
		r, size := utf8.DecodeRuneInString(raw[idx:])
		buf.WriteRune(r)

		return size - 1
	}

	return 0
}

func writeCodePoint(buf *strings.Builder, raw string, escIdx, from, to int) int {
	if to > len(raw) || from >= to {
		buf.WriteByte('\\')
		buf.WriteByte(raw[escIdx])

		return 0
	}

	code, err := strconv.ParseUint(raw[from:to], 16, 32)
	if err != nil {
		buf.WriteByte('\\')
		buf.WriteByte(raw[escIdx])

		return 0
	}

	buf.WriteRune(rune(code))

	return to - escIdx - 1
}
