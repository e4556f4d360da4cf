// Package prefix holds the per-language nonbreaking prefixes: abbreviations
// whose trailing period does not end a sentence.
package prefix

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NumericOnlyMarker tags a list entry that is nonbreaking only when the next
// token starts with a digit, e.g. "No #NUMERIC_ONLY#".
const NumericOnlyMarker = "#NUMERIC_ONLY#"

// Set is an immutable pair of prefix sets for one language.
type Set struct {
	text    map[string]struct{}
	numeric map[string]struct{}
}

// Parse reads a prefix list. Each non-blank line that does not start with '#'
// is one prefix; a trailing NumericOnlyMarker (separated by white space) files
// the prefix under the numeric-only set instead.
func Parse(r io.Reader) (*Set, error) {
	s := &Set{
		text:    make(map[string]struct{}),
		numeric: make(map[string]struct{}),
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRightFunc(sc.Text(), unicode.IsSpace)
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if p, ok := numericEntry(line); ok {
			s.numeric[p] = struct{}{}
			continue
		}
		s.text[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read prefix list: %w", err)
	}

	return s, nil
}

// numericEntry splits "<prefix> <ws> #NUMERIC_ONLY#". line has no trailing
// white space.
func numericEntry(line string) (string, bool) {
	head, found := strings.CutSuffix(line, NumericOnlyMarker)
	if !found || head == "" {
		return "", false
	}
	if last, _ := utf8.DecodeLastRuneInString(head); !unicode.IsSpace(last) {
		return "", false
	}
	p := strings.TrimRightFunc(head, unicode.IsSpace)
	if p == "" {
		return "", false
	}
	return p, true
}

// IsNonbreaking reports whether prefix never ends a sentence.
func (s *Set) IsNonbreaking(prefix string) bool {
	_, ok := s.text[prefix]
	return ok
}

// IsNumericNonbreaking reports whether prefix does not end a sentence when
// followed by a number.
func (s *Set) IsNumericNonbreaking(prefix string) bool {
	_, ok := s.numeric[prefix]
	return ok
}

// Len returns the sizes of the text and numeric-only sets.
func (s *Set) Len() (text, numeric int) {
	return len(s.text), len(s.numeric)
}
