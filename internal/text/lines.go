// Package text handles line-oriented input and output for the tokenizer:
// reading lines from a stream, transforming them one at a time, and
// writing the results in input order.
package text

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sourcegraph/conc/stream"
)

// LineFunc transforms one input line (without its newline) into one output
// line (without its newline). It must be safe for concurrent use when
// Process runs with more than one worker.
type LineFunc func(line string) string

// Process reads r line by line, applies fn to each line and writes each
// result followed by "\n" to w. Output order always matches input order.
// With workers > 1, lines are transformed concurrently.
//
// A final line without a trailing newline is processed like any other.
// Process returns the number of lines written. It stops early when ctx is
// cancelled and returns ctx.Err().
func Process(ctx context.Context, r io.Reader, w io.Writer, fn LineFunc, workers int) (int, error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	var (
		n   int
		err error
	)
	if workers > 1 {
		n, err = processParallel(ctx, br, bw, fn, workers)
	} else {
		n, err = processSerial(ctx, br, bw, fn)
	}

	if flushErr := bw.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("write output: %w", flushErr)
	}

	return n, err
}

func processSerial(ctx context.Context, br *bufio.Reader, bw *bufio.Writer, fn LineFunc) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		line, ok, err := readLine(br)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}

		if err := writeLine(bw, fn(line)); err != nil {
			return n, err
		}
		n++
	}
}

func processParallel(ctx context.Context, br *bufio.Reader, bw *bufio.Writer, fn LineFunc, workers int) (int, error) {
	s := stream.New().WithMaxGoroutines(workers)

	// Callbacks run serially in submission order, so n and writeErr need
	// no locking.
	var (
		n        int
		writeErr error
		readErr  error
	)
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}

		line, ok, err := readLine(br)
		if err != nil {
			readErr = err
			break
		}
		if !ok {
			break
		}

		s.Go(func() stream.Callback {
			out := fn(line)
			return func() {
				if writeErr != nil {
					return
				}
				if err := writeLine(bw, out); err != nil {
					writeErr = err
					return
				}
				n++
			}
		})
	}
	s.Wait()

	if readErr != nil {
		return n, readErr
	}
	return n, writeErr
}

// readLine returns the next line without its "\n". ok is false at end of
// input.
func readLine(br *bufio.Reader) (string, bool, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	if err != nil && line == "" {
		return "", false, nil
	}

	return strings.TrimSuffix(line, "\n"), true, nil
}

func writeLine(bw *bufio.Writer, s string) error {
	if _, err := bw.WriteString(s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
