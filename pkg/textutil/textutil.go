// Package textutil holds byte-level checks applied to files before they
// are parsed: binary sniffing, byte order marks and line counting.
package textutil

import "bytes"

// BinarySniffLength is the maximum number of bytes scanned for a null
// byte. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// utf8BOM is the UTF-8 encoded byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant byte sequence.

// IsBinary reports whether data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// TrimBOM strips a leading UTF-8 byte order mark and reports whether one
// was present.
func TrimBOM(data []byte) ([]byte, bool) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], true
	}

	return data, false
}

// WithBOM prefixes data with a UTF-8 byte order mark.
func WithBOM(data []byte) []byte {
	return append(bytes.Clone(utf8BOM), data...)
}

// CountLines returns the number of newline-delimited lines in data. A
// final line without a trailing newline is counted. Empty data has zero
// lines.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}
