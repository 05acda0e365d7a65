package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// NormalizeAnswer lowercases and trims a validation answer so that casing and
// stray whitespace never affect verification.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// HashAnswer returns the bcrypt hash of a normalized validation answer using
// the given cost. Only the hash is ever stored.
func HashAnswer(answer string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(NormalizeAnswer(answer)), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyAnswer compares a stored hash against a candidate answer. bcrypt's
// comparison is constant time over the hash contents.
func VerifyAnswer(hash, answer string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(NormalizeAnswer(answer))) == nil
}
