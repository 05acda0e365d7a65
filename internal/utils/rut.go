package utils

import (
	"regexp"
	"strings"
)

// rutPattern matches the storage format for a Chilean RUT: exactly eight
// digits, a hyphen, and one verifier character (digit or K). Dots and
// shorter bodies are rejected on purpose; callers normalize with FormatRUT
// before validating.
var rutPattern = regexp.MustCompile(`^\d{8}-[\dkK]$`)

// FormatRUT trims surrounding whitespace and uppercases the verifier so a
// trailing "k" becomes "K". It performs no structural validation.
func FormatRUT(rut string) string {
	return strings.ToUpper(strings.TrimSpace(rut))
}

// RUTFormatOK reports whether the string already has the expected shape.
func RUTFormatOK(rut string) bool {
	return rutPattern.MatchString(rut)
}

// RUTCheckDigitOK verifies the modulo-11 check digit of a RUT. The format is
// a precondition: malformed input returns false without further work.
// The eight body digits are processed right to left, each multiplied by a
// cyclic weight 2,3,4,5,6,7,2,3,... and summed. The verifier is 11 minus the
// sum modulo 11, where 11 maps to "0" and 10 maps to "K".
func RUTCheckDigitOK(rut string) bool {
	if !RUTFormatOK(rut) {
		return false
	}
	body := rut[:8]
	verifier := strings.ToUpper(rut[9:])

	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	var expected string
	switch dv := 11 - sum%11; dv {
	case 11:
		expected = "0"
	case 10:
		expected = "K"
	default:
		expected = string(rune('0' + dv))
	}
	return verifier == expected
}

// ValidateRUT normalizes the input and requires both a valid shape and a
// matching check digit. It returns the normalized RUT suitable for storage.
func ValidateRUT(rut string) (string, bool) {
	formatted := FormatRUT(rut)
	if !RUTFormatOK(formatted) {
		return "", false
	}
	if !RUTCheckDigitOK(formatted) {
		return "", false
	}
	return formatted, true
}
