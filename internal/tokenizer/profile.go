package tokenizer

import "github.com/example/go-moses-tokenizer/internal/pattern"

// PadRule selects how non-alphanumeric characters are split off.
type PadRule int

const (
	PadDefault PadRule = iota
	// PadFinnishSwedish keeps word-internal colons (fi, sv).
	PadFinnishSwedish
	// PadCatalan keeps word-internal middle dots (ca).
	PadCatalan
)

func (r PadRule) String() string {
	switch r {
	case PadFinnishSwedish:
		return "fi-sv"
	case PadCatalan:
		return "ca"
	default:
		return "default"
	}
}

func (r PadRule) op() pattern.Op {
	switch r {
	case PadFinnishSwedish:
		return fiSvPadNonAlphanumeric
	case PadCatalan:
		return caPadNonAlphanumeric
	default:
		return padNonAlphanumeric
	}
}

// ApostropheRule selects how apostrophes are tokenized.
type ApostropheRule int

const (
	// ApostropheSplit surrounds every apostrophe with spaces.
	ApostropheSplit ApostropheRule = iota
	// ApostropheEnglish attaches to the following token: don't -> don 't.
	ApostropheEnglish
	// ApostropheLeft attaches to the preceding token: l'homme -> l' homme.
	ApostropheLeft
	// ApostropheSomali leaves apostrophes between two letters alone.
	ApostropheSomali
)

func (r ApostropheRule) String() string {
	switch r {
	case ApostropheEnglish:
		return "en"
	case ApostropheLeft:
		return "left"
	case ApostropheSomali:
		return "so"
	default:
		return "split"
	}
}

func (r ApostropheRule) op() pattern.Op {
	switch r {
	case ApostropheEnglish:
		return enApostrophe
	case ApostropheLeft:
		return leftApostrophe
	case ApostropheSomali:
		return soApostrophe
	default:
		return anyApostrophe
	}
}

// Profile is the fixed set of language-dependent rule variants.
type Profile struct {
	Language   string
	Pad        PadRule
	Apostrophe ApostropheRule
}

// ProfileFor returns the profile for a language code. Codes without special
// rules get the defaults.
func ProfileFor(lang string) Profile {
	p := Profile{Language: lang}

	switch lang {
	case "fi", "sv":
		p.Pad = PadFinnishSwedish
	case "ca":
		p.Pad = PadCatalan
	}

	switch lang {
	case "en":
		p.Apostrophe = ApostropheEnglish
	case "fr", "it", "ga", "ca":
		p.Apostrophe = ApostropheLeft
	case "so":
		p.Apostrophe = ApostropheSomali
	}

	return p
}
