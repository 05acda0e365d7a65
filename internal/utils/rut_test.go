package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRUT(t *testing.T) {
	assert.Equal(t, "19831267-K", FormatRUT("  19831267-k "))
	assert.Equal(t, "19831267-3", FormatRUT("19831267-3"))
	// Formatting is idempotent.
	assert.Equal(t, FormatRUT("19831267-K"), FormatRUT(FormatRUT(" 19831267-k")))
}

func TestRUTFormatOK(t *testing.T) {
	cases := []struct {
		rut string
		ok  bool
	}{
		{"19831267-3", true},
		{"11111111-1", true},
		{"19831267-K", true},
		{"19831267-k", true},
		{"19.831.267-3", false}, // dots not accepted in storage format
		{"1983126-3", false},    // seven-digit body
		{"198312671-3", false},  // nine-digit body
		{"19831267-33", false},
		{"19831267", false},
		{"", false},
		{"abcdefgh-3", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, RUTFormatOK(tc.rut), "rut %q", tc.rut)
	}
}

func TestRUTCheckDigit(t *testing.T) {
	assert.True(t, RUTCheckDigitOK("19831267-3"))
	assert.False(t, RUTCheckDigitOK("19831267-4"))
	assert.False(t, RUTCheckDigitOK("19831267-K"))
	// Malformed input is rejected, never panics.
	assert.False(t, RUTCheckDigitOK("not-a-rut"))
	assert.False(t, RUTCheckDigitOK(""))
}

func TestValidateRUT(t *testing.T) {
	got, ok := ValidateRUT(" 19831267-3 ")
	assert.True(t, ok)
	assert.Equal(t, "19831267-3", got)

	_, ok = ValidateRUT("19831267-4")
	assert.False(t, ok)

	_, ok = ValidateRUT("19.831.267-3")
	assert.False(t, ok)
}
