// Package testutil provides shared helpers for tests: golden fixture
// loading and skip helpers for optional prerequisites.
//
// Skip helpers call t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so tests remain runnable in partial checkouts
// without failing noisily.
//
// Typical usage:
//
//	func TestGolden(t *testing.T) {
//	    path := filepath.Join("testdata", "en.golden")
//	    testutil.RequireFile(t, path)
//	    for _, c := range testutil.ReadGolden(t, path) {
//	        ...
//	    }
//	}
package testutil

import (
	"os"
	"testing"
)

// RequireFile skips the test if path does not exist.
func RequireFile(tb testing.TB, path string) {
	tb.Helper()

	_, err := os.Stat(path)
	if err != nil {
		tb.Skipf("fixture %q not available: %v", path, err)
	}
}

// RequireEnv skips the test unless the environment variable key is set, and
// returns its value.
func RequireEnv(tb testing.TB, key string) string {
	tb.Helper()

	v := os.Getenv(key)
	if v == "" {
		tb.Skipf("%s not set", key)
	}

	return v
}
