package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/go-moses-tokenizer/internal/config"
	"github.com/example/go-moses-tokenizer/internal/server"
	"github.com/example/go-moses-tokenizer/internal/text"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

var errNotImplemented = errors.New("not implemented")

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	var (
		output    string
		protected string
		penn      bool
	)

	cmd := &cobra.Command{
		Use:   "mosestok [flags] [file ...]",
		Short: "Moses-compatible rule-based word tokenizer",
		Long: "Tokenizes each input line to one output line of space-separated tokens.\n" +
			"Files are read in order; \"-\" or no files means stdin.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if protected != "" {
				return fmt.Errorf("-protected %w", errNotImplemented)
			}
			if penn {
				return fmt.Errorf("-penn %w", errNotImplemented)
			}

			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			return runTokenize(cmd, cfg, args, output)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Write output to file instead of stdout")
	f.StringVar(&protected, "protected", "", "Protected patterns file (not implemented)")
	f.BoolVar(&penn, "penn", false, "Penn Treebank style (not implemented)")
	// Accepted for compatibility; they change nothing.
	f.BoolP("unbuffered", "b", false, "Ignored")
	f.BoolP("quiet", "q", false, "Ignored")
	f.BoolP("skip-xml", "x", false, "Ignored")
	f.Bool("time", false, "Ignored")
	f.Int("lines", 0, "Ignored")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newLanguagesCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Tokenizer.Language == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

func tokenizerOptions(cfg config.TokenizerConfig) tokenizer.Options {
	var opts tokenizer.Options
	if cfg.Aggressive {
		opts |= tokenizer.Aggressive
	}
	if cfg.NoEscape {
		opts |= tokenizer.NoEscape
	}
	return opts
}

func newTokenizer(cfg config.TokenizerConfig) *tokenizer.Tokenizer {
	tok := tokenizer.New(cfg.Language, tokenizerOptions(cfg))
	p := tok.Profile()
	slog.Debug("tokenizer ready",
		slog.String("language", p.Language),
		slog.String("pad", p.Pad.String()),
		slog.String("apostrophe", p.Apostrophe.String()),
		slog.String("options", tok.Options().String()),
	)
	if tok.PrefixLanguage() != cfg.Language {
		slog.Warn("no nonbreaking prefixes for language, using fallback",
			slog.String("language", cfg.Language),
			slog.String("prefix_language", tok.PrefixLanguage()),
		)
	}
	return tok
}

func runTokenize(cmd *cobra.Command, cfg config.Config, args []string, output string) (err error) {
	tok := newTokenizer(cfg.Tokenizer)

	w := cmd.OutOrStdout()
	if output != "" && output != "-" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		w = f
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	return tokenizeInputs(cmd.Context(), args, cmd.InOrStdin(), w, tok.Tokenize, cfg.Tokenizer.Threads)
}

// tokenizeInputs runs each named input through fn in order, "-" naming
// stdin.
func tokenizeInputs(ctx context.Context, names []string, stdin io.Reader, w io.Writer, fn text.LineFunc, workers int) error {
	for _, name := range names {
		n, err := tokenizeInput(ctx, name, stdin, w, fn, workers)
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(name), err)
		}
		slog.Debug("input tokenized", slog.String("input", displayName(name)), slog.Int("lines", n))
	}
	return nil
}

func tokenizeInput(ctx context.Context, name string, stdin io.Reader, w io.Writer, fn text.LineFunc, workers int) (int, error) {
	if name == "-" {
		return text.Process(ctx, stdin, w, fn, workers)
	}

	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return text.Process(ctx, f, w, fn, workers)
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}
