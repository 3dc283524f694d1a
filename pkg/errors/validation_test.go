package errors

import (
	"strings"
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "minimal", false},
		{"valid with dash", "heavy-noise", false},
		{"valid with underscore", "scan_2", false},
		{"valid digit first", "1900s", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"uppercase", "Noisy", true},
		{"space", "salt and pepper", true},
		{"slash", "a/b", true},
		{"leading dash", "-x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidProfile) {
				t.Errorf("ValidateProfileName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidProfile)
			}
		})
	}
}

func TestValidateOutputName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "noisy_0_text", false},
		{"valid with dot", "page.001", false},

		{"empty", "", true},
		{"with path /", "path/to/file", true},
		{"with path \\", "path\\to\\file", true},
		{"hidden file", ".hidden", true},
		{"control char", "a\x01b", true},
		{"too long", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"text", "text"},
		{"first column", "first_column"},
		{"../etc/passwd", "_etc_passwd"},
		{"", "item"},
		{"...", "item"},
		{"Straße", "Straße"},
	}

	for _, tt := range tests {
		got := SanitizeOutputName(tt.input)
		if got != tt.want {
			t.Errorf("SanitizeOutputName(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if err := ValidateOutputName(got); err != nil {
			t.Errorf("SanitizeOutputName(%q) = %q does not validate: %v", tt.input, got, err)
		}
	}
}
