package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		countryCode string
		want        string
	}{
		{"formatted nanp", "(555) 123-4567", "1", "+15551234567"},
		{"dots", "555.123.4567", "1", "+15551234567"},
		{"already e164", "+15551234567", "1", "+15551234567"},
		{"international kept", "+442071234567", "1", "+442071234567"},
		{"no country code", "(555) 123-4567", "", "5551234567"},
		{"eleven digits no plus", "15551234567", "1", "15551234567"},
		{"extension digits folded", "555-123-4567 x89", "", "555123456789"},
		{"garbage passes through", "call me", "1", "call me"},
		{"empty", "", "1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.input, tt.countryCode))
		})
	}
}

func TestPhone_Idempotent(t *testing.T) {
	once := Phone("(555) 123-4567", "1")
	assert.Equal(t, once, Phone(once, "1"))
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "15551234567", PhoneDigits("+1 (555) 123-4567"))
	assert.Equal(t, "", PhoneDigits("no digits"))
}

func TestFormatNANP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+15551234567", "(555) 123-4567"},
		{"5551234567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"+442071234567", "+442071234567"},
		{"123", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNANP(tt.input))
		})
	}
}
