package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// NormalizeLanguage reduces a language code or BCP 47 tag to the lowercase
// primary language subtag used to pick tokenizer rules: "en-US" and "EN_us"
// become "en", "zh-Hant-TW" becomes "zh". Codes are not canonicalized, so
// "yue" stays "yue". Well-formed codes unknown to the CLDR registry are kept
// as given; the tokenizer falls back to English for those. Empty input
// yields DefaultLanguage.
func NormalizeLanguage(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DefaultLanguage, nil
	}
	s = strings.ReplaceAll(s, "_", "-")

	tag, err := language.Raw.Parse(s)
	if err == nil {
		base, _ := tag.Base()
		if b := base.String(); b != "und" {
			return b, nil
		}
	}

	primary, _, _ := strings.Cut(s, "-")
	if !isLanguageSubtag(primary) {
		return "", fmt.Errorf("invalid language %q", raw)
	}

	return primary, nil
}

func isLanguageSubtag(s string) bool {
	if len(s) < 2 || len(s) > 8 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}

	return true
}
