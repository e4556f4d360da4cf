package pattern

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Op rewrites a buffer. Implementations never modify their input in place;
// an Op that finds nothing to do may return its input unchanged.
type Op interface {
	Apply(b Buffer) Buffer
}

// Matcher reports whether a buffer satisfies some condition.
type Matcher interface {
	Match(b Buffer) bool
}

// OpFunc adapts a plain function to Op.
type OpFunc func(Buffer) Buffer

// Apply calls f(b).
func (f OpFunc) Apply(b Buffer) Buffer { return f(b) }

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(Buffer) bool

// Match calls f(b).
func (f MatcherFunc) Match(b Buffer) bool { return f(b) }

func compile(expr string) (*regexp2.Regexp, error) {
	expanded, err := expandClasses(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	re, err := regexp2.Compile(expanded, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	return re, nil
}

// Replace substitutes every non-overlapping match of an expression with a
// replacement template, scanning leftmost-first.
type Replace struct {
	expr        string
	replacement string
	re          *regexp2.Regexp
	tpl         []segment
}

// CompileReplace compiles expr and the replacement template. Expressions use
// Perl syntax (including look-ahead) plus the [:class:] names listed in
// classes; templates may reference groups as $1 or ${1}.
func CompileReplace(expr, replacement string) (*Replace, error) {
	re, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return &Replace{
		expr:        expr,
		replacement: replacement,
		re:          re,
		tpl:         parseTemplate(replacement),
	}, nil
}

// MustReplace is like CompileReplace but panics on a malformed expression.
// It is meant for package-level rule tables so a bad rule stops the process
// before any input is read.
func MustReplace(expr, replacement string) *Replace {
	r, err := CompileReplace(expr, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

// Apply returns b with all matches substituted. When nothing matches, b is
// returned as is.
func (r *Replace) Apply(b Buffer) Buffer {
	m, err := r.re.FindRunesMatch(b)
	if err != nil || m == nil {
		return b
	}

	out := make(Buffer, 0, len(b)+len(b)/4+8)
	last := 0
	for m != nil {
		out = append(out, b[last:m.Index]...)
		out = r.expand(out, m)
		last = m.Index + m.Length

		m, err = r.re.FindNextMatch(m)
		if err != nil {
			break
		}
	}
	return append(out, b[last:]...)
}

func (r *Replace) expand(out Buffer, m *regexp2.Match) Buffer {
	for _, seg := range r.tpl {
		if seg.group < 0 {
			out = append(out, seg.literal...)
			continue
		}
		g := m.GroupByNumber(seg.group)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		out = append(out, g.Runes()...)
	}
	return out
}

// String renders the operation as s/expr/replacement/g.
func (r *Replace) String() string {
	return "s/" + r.expr + "/" + r.replacement + "/g"
}

// Search tests whether an expression occurs anywhere in a buffer.
type Search struct {
	expr string
	re   *regexp2.Regexp
}

// CompileSearch compiles expr with the same syntax as CompileReplace.
func CompileSearch(expr string) (*Search, error) {
	re, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return &Search{expr: expr, re: re}, nil
}

// MustSearch is like CompileSearch but panics on a malformed expression.
func MustSearch(expr string) *Search {
	s, err := CompileSearch(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Match reports whether the expression matches somewhere in b.
func (s *Search) Match(b Buffer) bool {
	ok, err := s.re.MatchRunes(b)
	return err == nil && ok
}

// String returns the source expression.
func (s *Search) String() string {
	return "/" + s.expr + "/"
}
