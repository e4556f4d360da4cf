package bench_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/example/go-moses-tokenizer/internal/bench"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
)

// ---------------------------------------------------------------------------
// Aggregation (min/max/mean)
// ---------------------------------------------------------------------------

func TestStats_MinMaxMean(t *testing.T) {
	durations := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}
	s := bench.ComputeStats(durations)

	if s.Min != 100*time.Millisecond {
		t.Errorf("want min=100ms, got %v", s.Min)
	}

	if s.Max != 300*time.Millisecond {
		t.Errorf("want max=300ms, got %v", s.Max)
	}

	if s.Mean != 200*time.Millisecond {
		t.Errorf("want mean=200ms, got %v", s.Mean)
	}
}

func TestStats_SingleRun(t *testing.T) {
	s := bench.ComputeStats([]time.Duration{150 * time.Millisecond})
	if s.Min != s.Max || s.Min != s.Mean {
		t.Errorf("single run: min/max/mean should all be equal, got min=%v max=%v mean=%v", s.Min, s.Max, s.Mean)
	}
}

func TestStats_Empty(t *testing.T) {
	if s := bench.ComputeStats(nil); s != (bench.Stats{}) {
		t.Errorf("want zero stats, got %+v", s)
	}
}

// ---------------------------------------------------------------------------
// Throughput calculation
// ---------------------------------------------------------------------------

func TestLinesPerSec_Calculation(t *testing.T) {
	// 500 lines in 250ms → 2000 lines/s
	lps := bench.CalcLinesPerSec(500, 250*time.Millisecond)
	if lps < 1999.9 || lps > 2000.1 {
		t.Errorf("want 2000 lines/s, got %.4f", lps)
	}
}

func TestLinesPerSec_ZeroDuration(t *testing.T) {
	if lps := bench.CalcLinesPerSec(10, 0); lps != 0 {
		t.Errorf("want 0 for zero duration, got %.4f", lps)
	}
}

func TestMeanLinesPerSec_WeightsByDuration(t *testing.T) {
	runs := []bench.RunResult{
		{Lines: 100, Duration: 100 * time.Millisecond},
		{Lines: 100, Duration: 300 * time.Millisecond},
	}
	// 200 lines over 400ms → 500 lines/s
	if lps := bench.MeanLinesPerSec(runs); lps < 499.9 || lps > 500.1 {
		t.Errorf("want 500 lines/s, got %.4f", lps)
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_SampleCorpus(t *testing.T) {
	tok := tokenizer.New("en", 0)

	runs, err := bench.Run(context.Background(), bench.SampleCorpus, tok.Tokenize, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(runs) != 3 {
		t.Fatalf("want 3 runs, got %d", len(runs))
	}

	for i, r := range runs {
		if r.Index != i || r.Cold != (i == 0) {
			t.Errorf("run %d: index=%d cold=%v", i, r.Index, r.Cold)
		}
		if r.Lines != len(bench.SampleCorpus) {
			t.Errorf("run %d: lines=%d, want %d", i, r.Lines, len(bench.SampleCorpus))
		}
		if r.Tokens <= r.Lines {
			t.Errorf("run %d: tokens=%d, want more than one per line", i, r.Tokens)
		}
	}

	if runs[0].Tokens != runs[2].Tokens {
		t.Error("token count changed between runs")
	}
}

func TestRun_CountsTokens(t *testing.T) {
	runs, err := bench.Run(context.Background(), []string{"a b", "c"}, strings.ToUpper, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if runs[0].Tokens != 3 {
		t.Errorf("want 3 tokens, got %d", runs[0].Tokens)
	}
}

func TestRun_Errors(t *testing.T) {
	if _, err := bench.Run(context.Background(), bench.SampleCorpus, strings.ToUpper, 0); err == nil {
		t.Error("want error for zero runs")
	}

	if _, err := bench.Run(context.Background(), nil, strings.ToUpper, 1); err == nil {
		t.Error("want error for empty corpus")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := bench.Run(ctx, bench.SampleCorpus, strings.ToUpper, 2); err == nil {
		t.Error("want error for cancelled context")
	}
}

// ---------------------------------------------------------------------------
// Throughput gate
// ---------------------------------------------------------------------------

func TestThroughput_BelowMinimum(t *testing.T) {
	err := bench.CheckThroughput(500, 1000)
	if err == nil {
		t.Error("want error when throughput is below the minimum")
	}
}

func TestThroughput_AboveMinimum(t *testing.T) {
	err := bench.CheckThroughput(1500, 1000)
	if err != nil {
		t.Errorf("want no error above minimum, got: %v", err)
	}
}

func TestThroughput_ExactlyAtMinimum(t *testing.T) {
	err := bench.CheckThroughput(1000, 1000)
	if err != nil {
		t.Errorf("want no error at exact minimum, got: %v", err)
	}
}

func TestThroughput_DisabledWhenZero(t *testing.T) {
	err := bench.CheckThroughput(0, 0)
	if err != nil {
		t.Errorf("minimum=0 should disable gate, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Output formatting
// ---------------------------------------------------------------------------

func sampleRuns() ([]bench.RunResult, bench.Stats) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, Duration: 800 * time.Millisecond, Lines: 100, Tokens: 900, LinesPerSec: 125},
		{Index: 1, Cold: false, Duration: 500 * time.Millisecond, Lines: 100, Tokens: 900, LinesPerSec: 200},
	}
	return runs, bench.ComputeStats(bench.Durations(runs))
}

func TestFormatTable_ContainsHeaders(t *testing.T) {
	runs, stats := sampleRuns()

	var buf strings.Builder
	bench.FormatTable(runs, stats, &buf)
	out := buf.String()

	for _, want := range []string{"run", "cold", "ms", "lines/s", "(mean)", "(overall)"} {
		if !strings.Contains(strings.ToLower(out), want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON_IsValidJSON(t *testing.T) {
	runs, stats := sampleRuns()

	var buf bytes.Buffer
	bench.FormatJSON(runs, stats, &buf)

	var out struct {
		Runs []struct {
			DurationMS float64 `json:"duration_ms"`
			Tokens     int     `json:"tokens"`
		} `json:"runs"`
		Stats struct {
			MeanMS      float64 `json:"mean_ms"`
			LinesPerSec float64 `json:"lines_per_sec"`
		} `json:"stats"`
	}

	err := json.Unmarshal(buf.Bytes(), &out)
	if err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v\n%s", err, buf.String())
	}

	if len(out.Runs) != 2 || out.Runs[0].DurationMS != 800 || out.Runs[1].Tokens != 900 {
		t.Errorf("runs = %+v", out.Runs)
	}

	if out.Stats.MeanMS != 650 {
		t.Errorf("mean_ms = %v, want 650", out.Stats.MeanMS)
	}
}
