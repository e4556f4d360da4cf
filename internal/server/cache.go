package server

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/example/go-moses-tokenizer/internal/tokenizer"
)

// TokenizerCache keeps recently used tokenizers keyed by language and
// options. It is safe for concurrent use.
type TokenizerCache struct {
	cache *lru.Cache
	log   *slog.Logger
}

type cacheKey struct {
	lang string
	opts tokenizer.Options
}

// NewTokenizerCache returns a cache holding up to size tokenizers.
func NewTokenizerCache(size int, logger *slog.Logger) (*TokenizerCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("tokenizer cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenizerCache{cache: c, log: logger}, nil
}

// Get returns a cached tokenizer for lang and opts, building one on a miss.
func (c *TokenizerCache) Get(lang string, opts tokenizer.Options) LineTokenizer {
	return c.get(lang, opts)
}

func (c *TokenizerCache) get(lang string, opts tokenizer.Options) *tokenizer.Tokenizer {
	key := cacheKey{lang: lang, opts: opts}
	if v, ok := c.cache.Get(key); ok {
		return v.(*tokenizer.Tokenizer)
	}

	tok := tokenizer.New(lang, opts)
	if tok.PrefixLanguage() != lang {
		c.log.Warn("no nonbreaking prefixes for language, using fallback",
			slog.String("language", lang),
			slog.String("prefix_language", tok.PrefixLanguage()),
		)
	}
	c.cache.Add(key, tok)

	return tok
}

// Len returns the number of cached tokenizers.
func (c *TokenizerCache) Len() int { return c.cache.Len() }
