package config

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain code", "en", "en", false},
		{"upper case", "DE", "de", false},
		{"region subtag", "en-US", "en", false},
		{"underscore separator", "pt_BR", "pt", false},
		{"script and region", "zh-Hant-TW", "zh", false},
		{"three letter code", "yue", "yue", false},
		{"surrounding spaces", "  fr  ", "fr", false},
		{"unregistered code kept", "xx", "xx", false},
		{"empty gives default", "", "en", false},
		{"whitespace gives default", "   ", "en", false},
		{"digits", "1234", "", true},
		{"single letter", "e", "", true},
		{"punctuation", "en!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLanguage(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeLanguage(%q) = %q, nil; want error", tt.input, got)
				}

				return
			}

			if err != nil {
				t.Errorf("NormalizeLanguage(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("NormalizeLanguage(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}
