package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownClass is returned when an expression names a [:class:] that has
// no Unicode mapping.
var ErrUnknownClass = errors.New("unknown character class")

// classes maps the bracket-expression names accepted in expressions to the
// Unicode property escapes they stand for. Names are only meaningful inside a
// bracket expression, e.g. "[^[:alnum:]\s]".
//
// alpha follows the Unicode Alphabetic property closely enough for
// tokenization: letters, letter numbers and the combining marks that attach
// to them.
var classes = map[string]string{
	"alpha":  `\p{L}\p{Nl}\p{Mn}\p{Mc}`,
	"alnum":  `\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}`,
	"lower":  `\p{Ll}`,
	"Ll":     `\p{Ll}`,
	"upper":  `\p{Lu}`,
	"Lu":     `\p{Lu}`,
	"digit":  `\p{Nd}`,
	"Number": `\p{N}`,
	"space":  `\s`,
}

// expandClasses rewrites every [:name:] in expr to its Unicode escapes.
func expandClasses(expr string) (string, error) {
	var sb strings.Builder
	for {
		start := strings.Index(expr, "[:")
		if start < 0 {
			break
		}
		end := strings.Index(expr[start+2:], ":]")
		if end < 0 {
			break
		}
		name := expr[start+2 : start+2+end]
		if !isClassName(name) {
			sb.WriteString(expr[:start+2])
			expr = expr[start+2:]
			continue
		}
		body, ok := classes[name]
		if !ok {
			return "", fmt.Errorf("%w %q", ErrUnknownClass, name)
		}
		sb.WriteString(expr[:start])
		sb.WriteString(body)
		expr = expr[start+2+end+2:]
	}
	sb.WriteString(expr)
	return sb.String(), nil
}

func isClassName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
