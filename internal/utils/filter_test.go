package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQueryText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		wantErr bool
	}{
		{"empty", "", 10, false},
		{"plain", "machine", 10, false},
		{"unicode counted as runes", "ééééé", 5, false},
		{"too long", strings.Repeat("a", 11), 10, true},
		{"no limit", strings.Repeat("a", 500), 0, false},
		{"newline", "mach\nine", 10, true},
		{"nul", "a\x00", 10, true},
		{"bad utf8", string([]byte{0xff, 0xfe}), 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryText("prefix", tt.input, tt.max)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
