// Package safeconv converts the unsigned byte offsets, rows and columns
// that tree-sitter reports into the ints Go indexes buffers with.
package safeconv

// MaxInt is the maximum value for int on this platform.
const MaxInt = int(^uint(0) >> 1)

// MustUintToInt converts an offset to an int, panics on overflow.
// Offsets into an in-memory buffer always fit.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: offset overflows int")
	}

	return int(v)
}

// MustIntToUint converts a buffer length to an offset, panics if negative.
func MustIntToUint(v int) uint {
	if v < 0 {
		panic("safeconv: negative offset")
	}

	return uint(v)
}

// Span returns source[start:end], or false when the range does not lie
// inside source. Stale offsets from an edited buffer end up here.
func Span(source []byte, start, end uint) ([]byte, bool) {
	if start > end || end > uint(len(source)) {
		return nil, false
	}

	return source[start:end], true
}
