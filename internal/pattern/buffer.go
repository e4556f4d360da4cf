// Package pattern provides the rewriting primitives the tokenizer pipeline is
// built from: a code-point text buffer, compiled match/substitute operations
// over Unicode category classes, and the combinators that sequence them.
package pattern

import "unicode"

// Buffer is a line of text held as Unicode code points. All operations in
// this package read and produce Buffers; conversion to and from UTF-8 happens
// only at the edges via FromString and String.
type Buffer []rune

// FromString decodes a UTF-8 string into a Buffer.
func FromString(s string) Buffer {
	return Buffer(s)
}

// String encodes the buffer back to UTF-8.
func (b Buffer) String() string {
	return string(b)
}

// IndexRune returns the index of the first occurrence of r, or -1.
func (b Buffer) IndexRune(r rune) int {
	for i, c := range b {
		if c == r {
			return i
		}
	}
	return -1
}

// TrimSpace strips leading and trailing white space.
var TrimSpace Op = OpFunc(func(b Buffer) Buffer {
	start, end := 0, len(b)
	for start < end && unicode.IsSpace(b[start]) {
		start++
	}
	for end > start && unicode.IsSpace(b[end-1]) {
		end--
	}
	return b[start:end]
})
