package tokenizer

import "github.com/example/go-moses-tokenizer/internal/pattern"

// The rule table is compiled once at package initialisation. A malformed
// rule panics here, before any line is processed.
var (
	deduplicateSpace = pattern.MustReplace(`\s+`, " ")

	removeASCIIJunk = pattern.MustReplace(`[\x00-\x1F]`, "")

	padNonAlphanumeric = pattern.MustReplace("([^[:alnum:]\\s\\.'`,-])", " $1 ")

	// In Finnish and Swedish the colon works like an apostrophe inside words
	// (USA:n, 20:een, EU:ssa, S:t) unless no lower-case letter follows it.
	fiSvPadNonAlphanumeric = pattern.Chain{
		pattern.MustReplace("([^[:alnum:]\\s\\.:'`,-])", " $1 "),
		pattern.MustReplace(`(:)(?=$|[^[:Ll:]])`, " $1 "),
	}

	// Catalan keeps the middle dot inside words (il·lusió) on the same terms.
	caPadNonAlphanumeric = pattern.Chain{
		pattern.MustReplace("([^[:alnum:]\\s\\.·'`,-])", " $1 "),
		pattern.MustReplace(`(·)(?=$|[^[:Ll:]])`, " $1 "),
	}

	aggressiveHyphenSplit = pattern.MustReplace(`([[:alnum:]])\-(?=[[:alnum:]])`, "$1 @-@ ")

	// The first two rules are applied separately because a single global
	// pass consumes the left neighbour: A,B,C,D turns into A , B,C , D.
	// Extra spaces are collapsed later.
	separateComma = pattern.Chain{
		pattern.MustReplace(`([^[:Number:]])[,]`, "$1 , "),
		pattern.MustReplace(`[,]([^[:Number:]])`, ", $1"),
		pattern.MustReplace(`([[:Number:]])[,]$`, "$1 , "),
	}

	enApostrophe = pattern.Chain{
		pattern.MustReplace(`([^[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([^[:alpha:][:Number:]])[']([[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([[:alpha:]])[']([[:alpha:]])`, "$1 '$2"),
		// 1990's
		pattern.MustReplace(`([[:Number:]])[']([s])`, "$1 '$2"),
	}

	leftApostrophe = pattern.Chain{
		pattern.MustReplace(`([^[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([^[:alpha:]])[']([[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([[:alpha:]])[']([[:alpha:]])`, "$1' $2"),
	}

	// Somali uses the apostrophe as a glottal stop between letters.
	soApostrophe = pattern.Chain{
		pattern.MustReplace(`([^[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([^[:alpha:]])[']([[:alpha:]])`, "$1 ' $2"),
		pattern.MustReplace(`([[:alpha:]])[']([^[:alpha:]])`, "$1 ' $2"),
	}

	anyApostrophe = pattern.MustReplace(`'`, " ' ")

	trailingDotApostrophe = pattern.MustReplace(`\.' ?$`, " . ' ")

	// Ampersand goes first so later entities are not escaped twice.
	escapeSpecial = pattern.Chain{
		pattern.MustReplace(`&`, "&amp;"),
		pattern.MustReplace(`\|`, "&#124;"),
		pattern.MustReplace(`<`, "&lt;"),
		pattern.MustReplace(`>`, "&gt;"),
		pattern.MustReplace(`'`, "&apos;"),
		pattern.MustReplace(`"`, "&quot;"),
		pattern.MustReplace(`\[`, "&#91;"),
		pattern.MustReplace(`\]`, "&#93;"),
	}

	// protectMultidot turns every run of two or more periods into a marker
	// that later single-period rules cannot see. Each loop round converts one
	// more period of a run into a DOT prefix of the marker.
	protectMultidot = pattern.Loop{
		Init: pattern.MustReplace(`\.([\.]+)`, " DOTMULTI$1"),
		Cond: pattern.MustSearch(`DOTMULTI\.`),
		Body: pattern.Chain{
			pattern.MustReplace(`DOTMULTI\.([^\.])`, "DOTDOTMULTI $1"),
			pattern.MustReplace(`DOTMULTI\.`, "DOTDOTMULTI"),
		},
		Finalize: pattern.Noop,
	}

	restoreMultidot = pattern.Loop{
		Init:     pattern.Noop,
		Cond:     pattern.MustSearch(`DOTDOTMULTI`),
		Body:     pattern.MustReplace(`DOTDOTMULTI`, "DOTMULTI."),
		Finalize: pattern.MustReplace(`DOTMULTI`, "."),
	}

	containsAlpha   = pattern.MustSearch(`[[:alpha:]]`)
	startsLowercase = pattern.MustSearch(`^[[:lower:]]`)
)
