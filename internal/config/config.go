package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable Load consults, e.g.
// MOSESTOK_TOKENIZER_LANGUAGE.
const EnvPrefix = "MOSESTOK"

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Server    ServerConfig    `mapstructure:"server"`
}

type TokenizerConfig struct {
	Language   string `mapstructure:"language"`
	Aggressive bool   `mapstructure:"aggressive"`
	NoEscape   bool   `mapstructure:"no_escape"`
	Threads    int    `mapstructure:"threads"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	CacheSize       int    `mapstructure:"cache_size"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Tokenizer: TokenizerConfig{
			Language:   DefaultLanguage,
			Aggressive: false,
			NoEscape:   false,
			Threads:    1,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxTextBytes:    65536,
			RequestTimeout:  30,
			ShutdownTimeout: 10,
			CacheSize:       64,
		},
	}
}

// flagKeys maps flag names to config keys. Flags missing from the bound
// FlagSet are skipped, so commands may register any subset.
var flagKeys = []struct{ flag, key string }{
	{"log-level", "log_level"},
	{"language", "tokenizer.language"},
	{"aggressive", "tokenizer.aggressive"},
	{"no-escape", "tokenizer.no_escape"},
	{"threads", "tokenizer.threads"},
	{"server-listen-addr", "server.listen_addr"},
	{"server-workers", "server.workers"},
	{"server-max-text-bytes", "server.max_text_bytes"},
	{"server-request-timeout", "server.request_timeout"},
	{"server-shutdown-timeout", "server.shutdown_timeout"},
	{"server-cache-size", "server.cache_size"},
}

// RegisterFlags adds the flags shared by every command. The one-letter
// shorthands match the legacy Moses tokenizer (-l en -a).
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
	fs.StringP("language", "l", defaults.Tokenizer.Language, "Language code (ISO 639-1, or a BCP 47 tag)")
	fs.BoolP("aggressive", "a", defaults.Tokenizer.Aggressive, "Split hyphens between alphanumerics (a-b -> a @-@ b)")
	fs.Bool("no-escape", defaults.Tokenizer.NoEscape, "Do not escape special characters")
	fs.Int("threads", defaults.Tokenizer.Threads, "Number of lines tokenized concurrently")
}

// RegisterServerFlags adds the HTTP server flags.
func RegisterServerFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent tokenize requests")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("server-cache-size", defaults.Server.CacheSize, "Number of tokenizers kept in the LRU cache")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("mosestok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	lang, err := NormalizeLanguage(cfg.Tokenizer.Language)
	if err != nil {
		return Config{}, err
	}
	cfg.Tokenizer.Language = lang

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	switch {
	case c.Tokenizer.Threads < 1:
		return fmt.Errorf("tokenizer.threads must be at least 1, got %d", c.Tokenizer.Threads)
	case c.Server.Workers < 1:
		return fmt.Errorf("server.workers must be at least 1, got %d", c.Server.Workers)
	case c.Server.CacheSize < 1:
		return fmt.Errorf("server.cache_size must be at least 1, got %d", c.Server.CacheSize)
	case c.Server.MaxTextBytes < 0:
		return fmt.Errorf("server.max_text_bytes must not be negative, got %d", c.Server.MaxTextBytes)
	}

	return nil
}

// bindFlags binds each known flag to its nested key. Unlike aliases, a
// binding only wins over the config file when the flag was set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", fk.flag, err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("tokenizer.language", c.Tokenizer.Language)
	v.SetDefault("tokenizer.aggressive", c.Tokenizer.Aggressive)
	v.SetDefault("tokenizer.no_escape", c.Tokenizer.NoEscape)
	v.SetDefault("tokenizer.threads", c.Tokenizer.Threads)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.cache_size", c.Server.CacheSize)
}
