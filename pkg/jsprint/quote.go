package jsprint

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
)

// quoteString renders value as a string literal in the preferred quote
// style. The other quote is used when it avoids escaping.
func quoteString(value, style string) string {
	quote := byte('"')
	if style == codestyle.QuoteSingle {
		quote = '\''
	}

	other := byte('\'')
	if quote == '\'' {
		other = '"'
	}

	if strings.IndexByte(value, quote) >= 0 && strings.IndexByte(value, other) < 0 {
		quote = other
	}

	var buf strings.Builder

	buf.Grow(len(value) + 2)
	buf.WriteByte(quote)

	for _, r := range value {
		switch {
		case r == rune(quote) || r == '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\u2028' || r == '\u2029':
			fmt.Fprintf(&buf, `\u%04x`, r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&buf, `\x%02x`, r)
		case !unicode.IsPrint(r) && r <= 0xffff:
			fmt.Fprintf(&buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}

	buf.WriteByte(quote)

	return buf.String()
}

// quoteTemplate renders value as a template literal without substitutions.
func quoteTemplate(value string) string {
	replacer := strings.NewReplacer("\\", `\\`, "`", "\\`", "${", `\${`)

	return "`" + replacer.Replace(value) + "`"
}
