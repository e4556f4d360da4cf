// Package bench provides benchmarking primitives for the mosestok bench command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// SampleCorpus is tokenized when no corpus file is given. It mixes
// abbreviations, numbers, quotes and several scripts.
var SampleCorpus = []string{
	"Dr. Smith went to Washington D.C. yesterday.",
	"It costs $5,300 today, or about 4.200 EUR.",
	"\"I don't know,\" she said... \"Ask Mr. Jones.\"",
	"See No. 5 and pp. 12-15 of the report (Jan. 2020).",
	"The state-of-the-art system scored 98.6% on test #3.",
	"Tokens like <html> & [brackets] | pipes must be escaped.",
	"Привет, мир! Καλημέρα κόσμε. Hello again.",
	"U.S.A. and e.g. other abbreviations stay intact, don't they?",
}

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and volume for a single pass over the corpus.
type RunResult struct {
	Index       int
	Cold        bool // true for the first run (cold-start)
	Duration    time.Duration
	Lines       int
	Tokens      int
	LinesPerSec float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the run durations for ComputeStats.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Running
// ---------------------------------------------------------------------------

// Run tokenizes lines runs times with fn and records each pass. The first
// pass is marked cold. ctx is checked between passes.
func Run(ctx context.Context, lines []string, fn func(string) string, runs int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be >= 1, got %d", runs)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}

	results := make([]RunResult, 0, runs)
	for i := range runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		tokens := 0
		start := time.Now()
		for _, line := range lines {
			tokens += len(strings.Fields(fn(line)))
		}
		d := time.Since(start)

		results = append(results, RunResult{
			Index:       i,
			Cold:        i == 0,
			Duration:    d,
			Lines:       len(lines),
			Tokens:      tokens,
			LinesPerSec: CalcLinesPerSec(len(lines), d),
		})
	}

	return results, nil
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcLinesPerSec returns lines / d in seconds.
// Returns 0 if d is zero to avoid division by zero.
func CalcLinesPerSec(lines int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(lines) / d.Seconds()
}

// MeanLinesPerSec returns total lines over total duration across runs.
func MeanLinesPerSec(runs []RunResult) float64 {
	var (
		lines int
		total time.Duration
	)
	for _, r := range runs {
		lines += r.Lines
		total += r.Duration
	}
	return CalcLinesPerSec(lines, total)
}

// ---------------------------------------------------------------------------
// Throughput gate
// ---------------------------------------------------------------------------

// CheckThroughput returns an error if linesPerSec < minimum.
// A minimum of 0 disables the gate.
func CheckThroughput(linesPerSec, minimum float64) error {
	if minimum <= 0 {
		return nil
	}
	if linesPerSec < minimum {
		return fmt.Errorf("throughput %.1f lines/s below minimum %.1f", linesPerSec, minimum)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %8s  %12s\n", "Run", "Cold", "MS", "Lines", "Tokens", "Lines/s")
	fmt.Fprintln(sb, strings.Repeat("-", 58))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %8d  %8d  %12.1f\n",
			r.Index+1,
			cold,
			durationMS(r.Duration),
			r.Lines,
			r.Tokens,
			r.LinesPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 58))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", durationMS(stats.Min))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", durationMS(stats.Mean))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", durationMS(stats.Max))
	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %8s  %12.1f  (overall)\n", "", "", "", "", "", MeanLinesPerSec(runs))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index       int     `json:"index"`
	Cold        bool    `json:"cold"`
	DurationMS  float64 `json:"duration_ms"`
	Lines       int     `json:"lines"`
	Tokens      int     `json:"tokens"`
	LinesPerSec float64 `json:"lines_per_sec"`
}

type jsonStats struct {
	MinMS       float64 `json:"min_ms"`
	MeanMS      float64 `json:"mean_ms"`
	MaxMS       float64 `json:"max_ms"`
	LinesPerSec float64 `json:"lines_per_sec"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:       durationMS(stats.Min),
			MeanMS:      durationMS(stats.Mean),
			MaxMS:       durationMS(stats.Max),
			LinesPerSec: MeanLinesPerSec(runs),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:       r.Index,
			Cold:        r.Cold,
			DurationMS:  durationMS(r.Duration),
			Lines:       r.Lines,
			Tokens:      r.Tokens,
			LinesPerSec: r.LinesPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}

// durationMS keeps sub-millisecond precision; a pass over a small corpus
// often finishes in well under a millisecond.
func durationMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
