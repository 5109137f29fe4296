package utils

import (
	"strings"
	"testing"
)

func TestGenerateShortCode_DefaultLength(t *testing.T) {
	code, err := GenerateShortCodeWithLength(DefaultShortCodeLength)
	if err != nil {
		t.Fatalf("GenerateShortCodeWithLength() error = %v", err)
	}

	if len(code) != DefaultShortCodeLength {
		t.Errorf("GenerateShortCodeWithLength() length = %d, want %d", len(code), DefaultShortCodeLength)
	}

	for _, char := range code {
		if !strings.ContainsRune(alphabet, char) {
			t.Errorf("GenerateShortCodeWithLength() contains invalid character: %c", char)
		}
	}
}

func TestGenerateShortCodeWithLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"length 1", 1, false},
		{"length 6", 6, false},
		{"group length", GroupCodeLength, false},
		{"length 12", 12, false},
		{"zero length", 0, true},
		{"negative length", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := GenerateShortCodeWithLength(tt.length)
			if tt.wantErr {
				if err == nil {
					t.Errorf("GenerateShortCodeWithLength(%d) expected error", tt.length)
				}
				return
			}
			if err != nil {
				t.Errorf("GenerateShortCodeWithLength(%d) error = %v", tt.length, err)
				return
			}

			if len(code) != tt.length {
				t.Errorf("GenerateShortCodeWithLength(%d) length = %d, want %d", tt.length, len(code), tt.length)
			}

			// generated codes must always be acceptable as aliases too
			if tt.length >= 3 {
				if err := ValidateAlias(code); err != nil {
					t.Errorf("generated code %q rejected by ValidateAlias: %v", code, err)
				}
			}
		})
	}
}

func TestGenerateShortCodeUniqueness(t *testing.T) {
	generated := make(map[string]bool)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		code, err := GenerateShortCodeWithLength(DefaultShortCodeLength)
		if err != nil {
			t.Fatalf("GenerateShortCodeWithLength() error = %v", err)
		}

		if generated[code] {
			t.Errorf("GenerateShortCodeWithLength() generated duplicate: %s", code)
		}
		generated[code] = true
	}
}
