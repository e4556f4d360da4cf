package text

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when the input text is empty.
var ErrEmptyText = errors.New("text is empty")

// NormalizeNewlines converts CRLF and bare CR line endings to LF.
func NormalizeNewlines(s string) string {
	// CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SplitLines normalizes line endings and splits s into lines. A single
// trailing newline does not produce an extra empty line. Empty input is
// rejected with ErrEmptyText; whitespace-only input is not.
func SplitLines(s string) ([]string, error) {
	if s == "" {
		return nil, ErrEmptyText
	}

	s = NormalizeNewlines(s)
	s = strings.TrimSuffix(s, "\n")

	return strings.Split(s, "\n"), nil
}
