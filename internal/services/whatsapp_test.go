package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ten digits", "9876543210", "whatsapp:+919876543210"},
		{"spaces and dashes", "98765 432-10", "whatsapp:+919876543210"},
		{"already has country code", "+91 98765 43210", "whatsapp:+919876543210"},
		{"leading zero trunk prefix", "09876543210", "whatsapp:+919876543210"},
		{"too short", "12345", ""},
		{"empty", "", ""},
		{"letters only", "call me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWhatsAppNumber(tt.input))
		})
	}
}
