package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-moses-tokenizer/internal/config"
)

// runCLI executes a fresh root command the way main does.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	root.SetArgs(normalizeLegacyArgs(args))
	root.SetIn(strings.NewReader(stdin))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"serve", "health", "doctor", "bench", "languages"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "language", "aggressive", "no-escape", "threads", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestRoot_TokenizesStdin(t *testing.T) {
	out, err := runCLI(t, "Mr. Smith\nHello, world!\n\nIt costs $5,300 today.")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "Mr. Smith \nHello , world ! \n\nIt costs $ 5,300 today . \n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRoot_LegacyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"language and no-escape", []string{"-l", "fr", "-no-escape"}, "l'homme", "l' homme \n"},
		{"escape by default", []string{"-l", "fr"}, "l'homme", "l&apos; homme \n"},
		{"aggressive", []string{"-a"}, "state-of-the-art", "state @-@ of @-@ the @-@ art \n"},
		{"ignored flags", []string{"-b", "-q", "-x", "-time", "-lines", "10"}, "Hi.", "Hi . \n"},
		{"double dash forms", []string{"--language=de", "--no-escape"}, "Äpfel bzw. Birnen", "Äpfel bzw. Birnen \n"},
		{"region tag", []string{"-l", "en-GB"}, "Mr. Smith", "Mr. Smith \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.input, tt.args...)
			if err != nil {
				t.Fatalf("Execute(%v): %v", tt.args, err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRoot_UnknownLanguageMatchesEnglish(t *testing.T) {
	input := "Dr. Smith went to Washington D.C. yesterday.\nSee No. 5 and No. One"

	en, err := runCLI(t, input, "-l", "en")
	if err != nil {
		t.Fatalf("Execute en: %v", err)
	}

	xx, err := runCLI(t, input, "-l", "xx")
	if err != nil {
		t.Fatalf("Execute xx: %v", err)
	}

	if en != xx {
		t.Errorf("xx output %q differs from en output %q", xx, en)
	}
}

func TestRoot_FilesInOrderWithStdin(t *testing.T) {
	f1 := writeFile(t, "a.txt", "A,B\n")
	f2 := writeFile(t, "b.txt", "x.")

	out, err := runCLI(t, "Dr. Who\n", f1, "-", f2)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "A , B \nDr. Who \nx . \n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRoot_OutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")

	out, err := runCLI(t, "Hello, world!\n", "-o", dest)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "Hello , world ! \n" {
		t.Errorf("file = %q", data)
	}
}

func TestRoot_ThreadsKeepOrder(t *testing.T) {
	var in strings.Builder
	for range 200 {
		in.WriteString("Dr. Smith went to Washington D.C. yesterday.\nIt costs $5,300 today.\n")
	}

	serial, err := runCLI(t, in.String())
	if err != nil {
		t.Fatalf("Execute serial: %v", err)
	}

	parallel, err := runCLI(t, in.String(), "-threads", "4")
	if err != nil {
		t.Fatalf("Execute parallel: %v", err)
	}

	if serial != parallel {
		t.Error("-threads changed the output")
	}
}

func TestRoot_NotImplementedFlags(t *testing.T) {
	for _, args := range [][]string{{"-protected", "patterns.txt"}, {"-penn"}} {
		_, err := runCLI(t, "Hi.", args...)
		if !errors.Is(err, errNotImplemented) {
			t.Errorf("Execute(%v) error = %v, want not implemented", args, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), args[0]+" not implemented") {
			t.Errorf("error = %q", err.Error())
		}
	}
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"/nonexistent/input.txt"}, "/nonexistent/input.txt"},
		{"invalid language", []string{"-l", "12"}, "invalid language"},
		{"zero threads", []string{"-threads", "0"}, "threads"},
		{"unknown flag", []string{"-z"}, "unknown shorthand flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute(%v) error = %v, want it to mention %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "mosestok.yaml", "tokenizer:\n  language: fr\n  no_escape: true\n")

	out, err := runCLI(t, "l'homme", "--config", cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "l' homme \n" {
		t.Errorf("output = %q", out)
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	// A zero Config has no language.
	activeCfg = config.Config{}

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}
