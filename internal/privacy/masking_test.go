package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskMSISDN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"full number", "+1234567890", "+******7890"},
		{"short with plus", "+1234", "+****"},
		{"bare plus", "+", "+"},
		{"no plus", "1234567890", "******7890"},
		{"short no plus", "123", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskMSISDN(tt.input))
		})
	}
}
