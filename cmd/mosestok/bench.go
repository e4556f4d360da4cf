package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/example/go-moses-tokenizer/internal/bench"
	"github.com/example/go-moses-tokenizer/internal/text"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		corpus      string
		runs        int
		format      string
		minLinesSec float64
		cpuprofile  string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark tokenization throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			lines := bench.SampleCorpus
			if corpus != "" {
				lines, err = readCorpus(corpus)
				if err != nil {
					return err
				}
			}

			tok := newTokenizer(cfg.Tokenizer)

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("create cpuprofile: %w", err)
				}
				defer f.Close()

				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("start cpuprofile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}

			results, err := bench.Run(cmd.Context(), lines, tok.Tokenize, runs)
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				bench.FormatJSON(results, stats, out)
			default:
				bench.FormatTable(results, stats, out)
			}

			return bench.CheckThroughput(bench.MeanLinesPerSec(results), minLinesSec)
		},
	}

	cmd.Flags().StringVar(&corpus, "corpus", "", "Corpus file, one sentence per line (default: built-in sample)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of passes over the corpus")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minLinesSec, "min-lines-per-sec", 0, "Exit non-zero if throughput is below this value (0 = disabled)")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file")

	return cmd
}

func readCorpus(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	lines, err := text.SplitLines(string(data))
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}

	return lines, nil
}
