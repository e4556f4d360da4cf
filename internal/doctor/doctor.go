// Package doctor provides preflight checks for mosestok: embedded prefix
// data, a smoke tokenization per language and the English fallback.
package doctor

import (
	"fmt"
	"io"

	"github.com/example/go-moses-tokenizer/internal/prefix"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

const (
	// SmokeInput is tokenized in every language; SmokeWant is the result
	// expected everywhere.
	SmokeInput = "Hello, world."
	SmokeWant  = "Hello , world . "

	// fallbackInput exercises ordinary and numeric-only prefixes.
	fallbackInput = "Dr. Smith arrived at No. 5 yesterday. Then he left."
	unknownLang   = "xx"
)

// PrefixLookupFunc returns the prefix set for a language.
type PrefixLookupFunc func(lang string) (*prefix.Set, bool)

// TokenizeFunc tokenizes one line in lang with default options.
type TokenizeFunc func(lang, line string) string

// Config holds injectable dependencies for each doctor check. Nil fields
// use the embedded data and the real tokenizer.
type Config struct {
	// Languages lists the languages whose prefix data is checked.
	Languages func() []string
	Lookup    PrefixLookupFunc
	Tokenize  TokenizeFunc
	// Language is the configured default language, reported with the
	// prefix set it resolves to.
	Language string
}

func (c Config) withDefaults() Config {
	if c.Languages == nil {
		c.Languages = prefix.Languages
	}
	if c.Lookup == nil {
		c.Lookup = prefix.Lookup
	}
	if c.Tokenize == nil {
		c.Tokenize = func(lang, line string) string {
			return tokenizer.New(lang, 0).Tokenize(line)
		}
	}
	return c
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	cfg = cfg.withDefaults()

	var res Result

	// ---- prefix data ------------------------------------------------------
	langs := cfg.Languages()
	if len(langs) == 0 {
		res.fail("prefix data: no languages embedded")
		fmt.Fprintf(w, "%s prefix data: no languages embedded\n", FailMark)
	}
	for _, lang := range langs {
		set, ok := cfg.Lookup(lang)
		if !ok {
			res.fail(fmt.Sprintf("prefix data %s: not found", lang))
			fmt.Fprintf(w, "%s prefix data %s: not found\n", FailMark, lang)
			continue
		}
		text, numeric := set.Len()
		if text+numeric == 0 {
			res.fail(fmt.Sprintf("prefix data %s: empty", lang))
			fmt.Fprintf(w, "%s prefix data %s: empty\n", FailMark, lang)
			continue
		}
		fmt.Fprintf(w, "%s prefix data %s: %d prefixes, %d numeric-only\n", PassMark, lang, text, numeric)
	}

	// ---- smoke tokenization -------------------------------------------------
	smokeFailed := 0
	for _, lang := range langs {
		if got := cfg.Tokenize(lang, SmokeInput); got != SmokeWant {
			smokeFailed++
			res.fail(fmt.Sprintf("tokenize %s: got %q, want %q", lang, got, SmokeWant))
			fmt.Fprintf(w, "%s tokenize %s: got %q\n", FailMark, lang, got)
		}
	}
	if len(langs) > 0 && smokeFailed == 0 {
		fmt.Fprintf(w, "%s tokenize: smoke test passed for %d languages\n", PassMark, len(langs))
	}

	// ---- English fallback ---------------------------------------------------
	got := cfg.Tokenize(unknownLang, fallbackInput)
	want := cfg.Tokenize(prefix.Fallback, fallbackInput)
	if got != want {
		res.fail(fmt.Sprintf("fallback: %s gave %q, %s gave %q", unknownLang, got, prefix.Fallback, want))
		fmt.Fprintf(w, "%s fallback: %s output differs from %s\n", FailMark, unknownLang, prefix.Fallback)
	} else {
		fmt.Fprintf(w, "%s fallback: unknown languages use %s prefixes\n", PassMark, prefix.Fallback)
	}

	// ---- configured language ------------------------------------------------
	if cfg.Language != "" {
		if _, ok := cfg.Lookup(cfg.Language); ok {
			fmt.Fprintf(w, "%s language %s: own prefix list\n", PassMark, cfg.Language)
		} else {
			fmt.Fprintf(w, "%s language %s: no prefix list, using %s\n", PassMark, cfg.Language, prefix.Fallback)
		}
	}

	return res
}
