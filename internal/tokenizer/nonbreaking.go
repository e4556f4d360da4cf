package tokenizer

import "github.com/example/go-moses-tokenizer/internal/pattern"

// splitPeriods decides for every space-separated token ending in a period
// whether the period is sentence-final (and becomes its own token) or part
// of an abbreviation. It looks one token ahead and never revisits a token.
func (t *Tokenizer) splitPeriods(b pattern.Buffer) pattern.Buffer {
	out := make(pattern.Buffer, 0, len(b)+len(b)/8+2)

	rest := b
	for {
		tok, next, hasNext := cutToken(rest)

		if p, ok := periodPrefix(tok); ok && t.breaksAfter(p, next, hasNext) {
			out = append(out, p...)
			out = append(out, ' ', '.')
		} else {
			out = append(out, tok...)
		}
		out = append(out, ' ')

		if !hasNext {
			return out
		}
		rest = rest[len(tok)+1:]
	}
}

// cutToken returns the token at the start of b, the token after it, and
// whether a separator follows the first token at all. Tokens may be empty.
func cutToken(b pattern.Buffer) (tok, next pattern.Buffer, hasNext bool) {
	i := b.IndexRune(' ')
	if i < 0 {
		return b, nil, false
	}
	after := b[i+1:]
	if j := after.IndexRune(' '); j >= 0 {
		return b[:i], after[:j], true
	}
	return b[:i], after, true
}

// periodPrefix returns tok without its final period, provided the period is
// attached to a preceding non-blank character.
func periodPrefix(tok pattern.Buffer) (pattern.Buffer, bool) {
	n := len(tok)
	if n < 2 || tok[n-1] != '.' || isBlank(tok[n-2]) {
		return nil, false
	}
	return tok[:n-1], true
}

func (t *Tokenizer) breaksAfter(p, next pattern.Buffer, hasNext bool) bool {
	switch {
	case !hasNext:
		// Last-word periods are taken as sentence-final.
		return true
	case p.IndexRune('.') >= 0 && containsAlpha.Match(p):
		// Already an abbreviation such as U.S or e.g.
		return false
	case t.prefixes.IsNonbreaking(p.String()):
		return false
	case startsLowercase.Match(next):
		return false
	case startsWithDigit(next) && t.prefixes.IsNumericNonbreaking(p.String()):
		return false
	}
	return true
}

func startsWithDigit(b pattern.Buffer) bool {
	return len(b) > 0 && b[0] >= '0' && b[0] <= '9'
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }
