package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-moses-tokenizer/internal/config"
	"github.com/example/go-moses-tokenizer/internal/prefix"
	"github.com/example/go-moses-tokenizer/internal/text"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// LineTokenizer tokenizes single lines. *tokenizer.Tokenizer implements it.
type LineTokenizer interface {
	Tokenize(line string) string
	PrefixLanguage() string
}

// TokenizerSource hands out tokenizers by normalized language and options.
type TokenizerSource interface {
	Get(lang string, opts tokenizer.Options) LineTokenizer
}

// LanguageLister returns the languages with a nonbreaking prefix list.
type LanguageLister interface {
	Languages() []string
}

// PrefixLanguages lists the embedded prefix languages.
type PrefixLanguages struct{}

func (PrefixLanguages) Languages() []string { return prefix.Languages() }

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes    int
	workers         int
	requestTimeout  time.Duration
	logger          *slog.Logger
	defaultLanguage string
}

func defaultOptions() options {
	return options{
		maxTextBytes:    65536,
		workers:         4,
		requestTimeout:  30 * time.Second,
		logger:          slog.Default(),
		defaultLanguage: config.DefaultLanguage,
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /tokenize.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent tokenize requests.
// Zero disables throttling.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request tokenization deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDefaultLanguage sets the language used when a request names none.
func WithDefaultLanguage(lang string) Option {
	return func(o *options) { o.defaultLanguage = lang }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	tokenizers TokenizerSource
	languages  LanguageLister
	opts       options
	sem        chan struct{} // semaphore for worker pool
	log        *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /languages, and POST /tokenize.
func NewHandler(tokenizers TokenizerSource, languages LanguageLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		tokenizers: tokenizers,
		languages:  languages,
		opts:       opts,
		log:        opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/languages", h.handleLanguages)
	mux.HandleFunc("/tokenize", h.handleTokenize)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type languagesResponse struct {
	Languages []string `json:"languages"`
	Fallback  string   `json:"fallback"`
}

func (h *handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	langs := h.languages.Languages()
	if langs == nil {
		langs = []string{}
	}
	writeJSON(w, http.StatusOK, languagesResponse{Languages: langs, Fallback: prefix.Fallback})
}

type tokenizeRequest struct {
	Text       string `json:"text"`
	Language   string `json:"language"`
	Aggressive bool   `json:"aggressive"`
	NoEscape   bool   `json:"no_escape"`
}

type tokenizeResponse struct {
	Language       string   `json:"language"`
	PrefixLanguage string   `json:"prefix_language"`
	Lines          []string `json:"lines"`
}

func (h *handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var req tokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	rawLang := req.Language
	if rawLang == "" {
		rawLang = h.opts.defaultLanguage
	}
	lang, err := config.NormalizeLanguage(rawLang)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tokOpts tokenizer.Options
	if req.Aggressive {
		tokOpts |= tokenizer.Aggressive
	}
	if req.NoEscape {
		tokOpts |= tokenizer.NoEscape
	}

	// Acquire a worker slot; honour context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	// Apply per-request timeout.
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	tok := h.tokenizers.Get(lang, tokOpts)
	lines, out, err := tokenizeLines(ctx, tok, req.Text)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "tokenization timed out",
				slog.String("language", lang),
				slog.Int("text_len", len(req.Text)),
				slog.Int("lines_done", len(out)),
				slog.Int("lines", lines),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusGatewayTimeout, "tokenization timed out")
			return
		}
		h.log.ErrorContext(r.Context(), "tokenization failed",
			slog.String("language", lang),
			slog.Int("text_len", len(req.Text)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "tokenization complete",
		slog.String("language", lang),
		slog.String("prefix_language", tok.PrefixLanguage()),
		slog.String("options", tokOpts.String()),
		slog.Int("lines", lines),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, tokenizeResponse{
		Language:       lang,
		PrefixLanguage: tok.PrefixLanguage(),
		Lines:          out,
	})
}

// tokenizeLines tokenizes each line of s, checking ctx between lines. It
// returns the input line count and the lines finished so far.
func tokenizeLines(ctx context.Context, tok LineTokenizer, s string) (int, []string, error) {
	lines, err := text.SplitLines(s)
	if err != nil {
		return 0, nil, err
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return len(lines), out, err
		}
		out = append(out, tok.Tokenize(line))
	}

	return len(lines), out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server: wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:             cfg,
		logger:          slog.Default(),
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the logger, slog.Default() unless set.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Handler builds the request handler from the server configuration.
func (s *Server) Handler() (http.Handler, error) {
	cache, err := NewTokenizerCache(s.cfg.Server.CacheSize, s.logger)
	if err != nil {
		return nil, err
	}

	return NewHandler(cache, PrefixLanguages{},
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithDefaultLanguage(s.cfg.Tokenizer.Language),
		WithLogger(s.logger),
	), nil
}

func (s *Server) Start(ctx context.Context) error {
	h, err := s.Handler()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("server listening",
		slog.String("addr", s.cfg.Server.ListenAddr),
		slog.Int("workers", s.cfg.Server.Workers),
		slog.String("default_language", s.cfg.Tokenizer.Language),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks that a server answers GET /health at addr.
func ProbeHTTP(addr string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
