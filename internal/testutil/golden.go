package testutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
)

// GoldenCase is one input/expected pair from a golden file.
type GoldenCase struct {
	// Line is the line number of the input, for error messages.
	Line     int
	Language string
	// Flags are the words following the language on the header line.
	Flags []string
	Input string
	// Want is the expected output with trailing spaces removed.
	Want string
}

// Name returns a subtest name for the case.
func (c GoldenCase) Name() string {
	return fmt.Sprintf("%s:%d", c.Language, c.Line)
}

// HasFlag reports whether flag was listed on the case's header line.
func (c GoldenCase) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ParseGolden reads golden cases from r. The format is line based:
//
//	# comment
//	@ <lang> [flag ...]   sets language and flags for the cases below
//	< <input>
//	> <expected>
//
// Every "<" line must be followed by a ">" line. Blank lines are ignored.
func ParseGolden(r io.Reader) ([]GoldenCase, error) {
	var (
		cases   []GoldenCase
		lang    string
		flags   []string
		pending *GoldenCase
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tag, body := line[0], ""
		if len(line) > 2 {
			body = line[2:]
		}

		switch tag {
		case '@':
			if pending != nil {
				return nil, fmt.Errorf("line %d: header inside unfinished case from line %d", lineNo, pending.Line)
			}
			fields := strings.Fields(body)
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: header has no language", lineNo)
			}
			lang, flags = fields[0], fields[1:]
		case '<':
			if pending != nil {
				return nil, fmt.Errorf("line %d: input without expected output", pending.Line)
			}
			if lang == "" {
				return nil, fmt.Errorf("line %d: input before first header", lineNo)
			}
			pending = &GoldenCase{Line: lineNo, Language: lang, Flags: flags, Input: body}
		case '>':
			if pending == nil {
				return nil, fmt.Errorf("line %d: expected output without input", lineNo)
			}
			pending.Want = strings.TrimRight(body, " ")
			cases = append(cases, *pending)
			pending = nil
		default:
			return nil, fmt.Errorf("line %d: unknown tag %q", lineNo, tag)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("line %d: input without expected output", pending.Line)
	}

	return cases, nil
}

// ReadGolden loads the golden file at path and fails the test on any error.
func ReadGolden(tb testing.TB, path string) []GoldenCase {
	tb.Helper()

	f, err := os.Open(path)
	if err != nil {
		tb.Fatalf("open golden file: %v", err)
	}
	defer f.Close()

	cases, err := ParseGolden(f)
	if err != nil {
		tb.Fatalf("parse golden file %s: %v", path, err)
	}
	if len(cases) == 0 {
		tb.Fatalf("golden file %s has no cases", path)
	}

	return cases
}
