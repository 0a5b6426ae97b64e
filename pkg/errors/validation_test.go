package errors

import (
	"testing"
)

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "garage-", false},
		{"underscore", "shelf_a_", false},
		{"dots", "v1.2-", false},

		{"too long", string(make([]byte, 200)), true},
		{"slash", "out/garage", true},
		{"backslash", "out\\garage", true},
		{"traversal", "..garage", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePrefix(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out", false},
		{"absolute", "/tmp/multiboard", false},
		{"current", ".", false},

		{"empty", "", true},
		{"control", "out\x07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputDir(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
