package prefix

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Fallback is the language whose prefixes are used when a language has no
// list of its own.
const Fallback = "en"

const filePrefix = "nonbreaking_prefix."

//go:embed data/nonbreaking_prefix.*
var dataFS embed.FS

// registry parses every embedded list on first use. The result is never
// mutated afterwards and is shared by all callers.
var registry = sync.OnceValue(func() map[string]*Set {
	sets, err := loadEmbedded()
	if err != nil {
		panic(err)
	}
	return sets
})

func loadEmbedded() (map[string]*Set, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("list prefix data: %w", err)
	}

	sets := make(map[string]*Set, len(entries))
	for _, e := range entries {
		lang, ok := strings.CutPrefix(e.Name(), filePrefix)
		if !ok || e.IsDir() {
			continue
		}
		raw, err := dataFS.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prefix data %s: %w", lang, err)
		}
		set, err := Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse prefix data %s: %w", lang, err)
		}
		sets[lang] = set
	}
	if _, ok := sets[Fallback]; !ok {
		return nil, fmt.Errorf("prefix data for fallback language %q is missing", Fallback)
	}

	return sets, nil
}

// Lookup returns the prefix set of exactly lang.
func Lookup(lang string) (*Set, bool) {
	s, ok := registry()[lang]
	return s, ok
}

// For returns the prefix set for lang, or the Fallback set when lang has
// none. The second result names the language whose set was returned.
func For(lang string) (*Set, string) {
	if s, ok := Lookup(lang); ok {
		return s, lang
	}
	return registry()[Fallback], Fallback
}

// Languages lists the languages with an embedded prefix list, sorted.
func Languages() []string {
	sets := registry()
	langs := make([]string, 0, len(sets))
	for l := range sets {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
