// Package tokenizer implements a rule-based word tokenizer compatible with
// the Moses tokenizer. A Tokenizer turns one line of raw text into one line
// of space-separated tokens.
//
// A Tokenizer is immutable after New and safe for concurrent use; the
// compiled rules and prefix sets it refers to are shared process-wide.
package tokenizer

import (
	"strings"

	"github.com/example/go-moses-tokenizer/internal/pattern"
	"github.com/example/go-moses-tokenizer/internal/prefix"
)

// Options toggles optional pipeline stages.
type Options uint8

const (
	// Aggressive splits hyphens between alphanumerics: a-b -> a @-@ b.
	Aggressive Options = 1 << iota
	// NoEscape disables XML-style escaping of reserved characters.
	NoEscape
)

// Has reports whether every flag in f is set.
func (o Options) Has(f Options) bool { return o&f == f }

func (o Options) String() string {
	var parts []string
	if o.Has(Aggressive) {
		parts = append(parts, "aggressive")
	}
	if o.Has(NoEscape) {
		parts = append(parts, "no-escape")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Tokenizer holds the per-language configuration of the pipeline.
type Tokenizer struct {
	opts       Options
	profile    Profile
	prefixes   *prefix.Set
	prefixLang string
	pipeline   pattern.Chain
}

// New builds a Tokenizer for lang. It never fails: languages without special
// rules use the default rule variants, and languages without a prefix list
// use the English one (see PrefixLanguage).
func New(lang string, opts Options) *Tokenizer {
	set, setLang := prefix.For(lang)
	t := &Tokenizer{
		opts:       opts,
		profile:    ProfileFor(lang),
		prefixes:   set,
		prefixLang: setLang,
	}
	t.pipeline = t.buildPipeline()
	return t
}

func (t *Tokenizer) buildPipeline() pattern.Chain {
	stages := pattern.Chain{
		deduplicateSpace,
		removeASCIIJunk,
		pattern.TrimSpace,
		t.profile.Pad.op(),
	}
	if t.opts.Has(Aggressive) {
		stages = append(stages, aggressiveHyphenSplit)
	}
	stages = append(stages,
		protectMultidot,
		separateComma,
		t.profile.Apostrophe.op(),
		pattern.OpFunc(t.splitPeriods),
		deduplicateSpace,
		pattern.TrimSpace,
		trailingDotApostrophe,
		restoreMultidot,
	)
	if !t.opts.Has(NoEscape) {
		stages = append(stages, escapeSpecial)
	}
	return stages
}

// Tokenize tokenizes one line (without its newline). The result holds the
// tokens separated by single spaces and followed by one trailing space, or
// is empty when the line has no tokens.
func (t *Tokenizer) Tokenize(line string) string {
	out := t.pipeline.Apply(pattern.FromString(line))
	s := strings.TrimRight(out.String(), " ")
	if s == "" {
		return ""
	}
	return s + " "
}

// Tokens is Tokenize split into individual tokens.
func (t *Tokenizer) Tokens(line string) []string {
	return strings.Fields(t.Tokenize(line))
}

// Language returns the language code the Tokenizer was built for.
func (t *Tokenizer) Language() string { return t.profile.Language }

// Profile returns the rule variants in use.
func (t *Tokenizer) Profile() Profile { return t.profile }

// Options returns the enabled options.
func (t *Tokenizer) Options() Options { return t.opts }

// PrefixLanguage names the language whose nonbreaking prefixes are in use.
// It differs from Language when the requested language has no list.
func (t *Tokenizer) PrefixLanguage() string { return t.prefixLang }

// Tokenize is a one-shot helper for New(lang, opts).Tokenize(line).
func Tokenize(lang string, opts Options, line string) string {
	return New(lang, opts).Tokenize(line)
}
