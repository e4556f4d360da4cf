package pattern

import "strings"

// segment is one piece of a parsed replacement template: either literal
// text or a reference to a capture group.
type segment struct {
	literal []rune
	group   int // -1 for literal segments
}

// parseTemplate splits a replacement string into literal and group
// segments. Recognised references are $N, ${N}, $& (the whole match) and $$
// (a literal dollar). Anything else after a $ is kept literally.
func parseTemplate(s string) []segment {
	var (
		out []segment
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, segment{literal: []rune(lit.String()), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' || i+1 == len(s) {
			lit.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i++
		case next == '&':
			flush()
			out = append(out, segment{group: 0})
			i++
		case isDigit(next):
			j := i + 1
			n := 0
			for j < len(s) && isDigit(s[j]) {
				n = n*10 + int(s[j]-'0')
				j++
			}
			flush()
			out = append(out, segment{group: n})
			i = j - 1
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end <= 0 || !allDigits(s[i+2:i+2+end]) {
				lit.WriteByte(c)
				continue
			}
			n := 0
			for _, d := range s[i+2 : i+2+end] {
				n = n*10 + int(d-'0')
			}
			flush()
			out = append(out, segment{group: n})
			i += 2 + end
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
