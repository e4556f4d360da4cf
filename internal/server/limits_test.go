package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/go-moses-tokenizer/internal/server"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
)

// ---------------------------------------------------------------------------
// request validation and limits
// ---------------------------------------------------------------------------

func TestTokenize_OversizedTextRejectedAs413(t *testing.T) {
	h := newTestHandler(server.WithMaxTextBytes(10))

	rec := postTokenize(t, h, `{"text":"`+strings.Repeat("x", 11)+`"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}

	var errBody map[string]string

	err := json.NewDecoder(rec.Body).Decode(&errBody)
	if err != nil {
		t.Fatalf("decode error body: %v", err)
	}

	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

func TestTokenize_TextAtExactLimitIsAccepted(t *testing.T) {
	h := newTestHandler(server.WithMaxTextBytes(5))

	rec := postTokenize(t, h, `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 for exactly-limit text, got %d", rec.Code)
	}
}

func TestTokenize_RequestTimeoutStopsBetweenLines(t *testing.T) {
	slow := &slowSource{delay: 30 * time.Millisecond}
	h := server.NewHandler(slow, &stubLanguageLister{},
		server.WithRequestTimeout(10*time.Millisecond),
	)

	rec := postTokenize(t, h, `{"text":"a\nb\nc\nd"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("want 504 on timeout, got %d", rec.Code)
	}

	var errBody map[string]string

	_ = json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}

	if n := slow.calls.Load(); n >= 4 {
		t.Errorf("tokenized %d lines after the deadline, want fewer than 4", n)
	}
}

// ---------------------------------------------------------------------------
// worker pool / concurrency throttling
// ---------------------------------------------------------------------------

func TestTokenize_ConcurrencyThrottling(t *testing.T) {
	const workers = 2
	const totalRequests = 5

	var (
		mu         sync.Mutex
		peak       int
		current    int32
		releaseAll = make(chan struct{})
	)
	src := &countingSource{
		onEnter: func() {
			n := int(atomic.AddInt32(&current, 1))

			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-releaseAll
		},
		onExit: func() { atomic.AddInt32(&current, -1) },
	}

	h := server.NewHandler(src, &stubLanguageLister{}, server.WithWorkers(workers))

	var wg sync.WaitGroup

	codes := make([]int, totalRequests)
	for i := range totalRequests {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/tokenize", bytes.NewBufferString(`{"text":"Hi."}`))
			h.ServeHTTP(rec, req)
			codes[idx] = rec.Code
		}(i)
	}

	// Give goroutines time to enter the tokenizer.
	time.Sleep(50 * time.Millisecond)
	close(releaseAll)
	wg.Wait()

	mu.Lock()
	got := peak
	mu.Unlock()

	if got > workers {
		t.Errorf("peak concurrency %d exceeded worker limit %d", got, workers)
	}

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i, code)
		}
	}
}

func TestTokenize_WaiterCancelledWhileThrottled(t *testing.T) {
	release := make(chan struct{})
	src := &countingSource{onEnter: func() { <-release }, onExit: func() {}}

	h := server.NewHandler(src, &stubLanguageLister{}, server.WithWorkers(1))

	// First request occupies the single worker slot.
	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tokenize", bytes.NewBufferString(`{"text":"First."}`))
		h.ServeHTTP(rec, req)
	}()

	time.Sleep(20 * time.Millisecond)

	// Second request should be blocked waiting for a worker; cancel its context.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tokenize", bytes.NewBufferString(`{"text":"Second."}`)).WithContext(ctx)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 when waiter context cancelled, got %d", rec.Code)
	}

	close(release) // unblock the first request
	<-done
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// slowTokenizer sleeps before echoing each line.
type slowTokenizer struct {
	delay time.Duration
	calls *atomic.Int32
}

func (s slowTokenizer) Tokenize(line string) string {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return line + " "
}

func (slowTokenizer) PrefixLanguage() string { return "en" }

type slowSource struct {
	delay time.Duration
	calls atomic.Int32
}

func (s *slowSource) Get(string, tokenizer.Options) server.LineTokenizer {
	return slowTokenizer{delay: s.delay, calls: &s.calls}
}

// countingSource calls onEnter/onExit around each Tokenize call.
type countingSource struct {
	onEnter func()
	onExit  func()
}

func (c *countingSource) Get(lang string, opts tokenizer.Options) server.LineTokenizer {
	return countingTokenizer{src: c, tok: tokenizer.New(lang, opts)}
}

type countingTokenizer struct {
	src *countingSource
	tok *tokenizer.Tokenizer
}

func (c countingTokenizer) Tokenize(line string) string {
	c.src.onEnter()
	defer c.src.onExit()

	return c.tok.Tokenize(line)
}

func (c countingTokenizer) PrefixLanguage() string { return c.tok.PrefixLanguage() }
