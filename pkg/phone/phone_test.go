package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"555-123-4567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"(404) 555-0100", "+14045550100"},
		{"15551234567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{"+442071234567", "+442071234567"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestNormalizeWithCountry(t *testing.T) {
	got, err := NormalizeWithCountry("7911123456", "+44")
	assert.NoError(t, err)
	assert.Equal(t, "+447911123456", got)
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-number", "+0123456789", "123"} {
		_, err := Normalize(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("+15551234567"))
	assert.True(t, Valid("+442071234567"))
	assert.True(t, Valid("+61412345678"))

	assert.False(t, Valid("5551234567"))
	assert.False(t, Valid("555-123-4567"))
	assert.False(t, Valid("+0123456789"))
	assert.False(t, Valid(""))
}
