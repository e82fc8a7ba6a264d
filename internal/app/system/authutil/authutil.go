// Package authutil holds password rules and bcrypt hashing.
package authutil

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Lengths are counted in characters.
const (
	MinPasswordLength = 5
	MaxPasswordLength = 72
)

// MaxPasswordBytes is the bcrypt input limit; bcrypt rejects longer input.
const MaxPasswordBytes = 72

var (
	ErrPasswordTooShort = fmt.Errorf("Ensure this field has at least %d characters.", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("Ensure this field has no more than %d characters.", MaxPasswordLength)
	ErrPasswordTooWide  = fmt.Errorf("Ensure this field has no more than %d bytes when encoded as UTF-8.", MaxPasswordBytes)
)

// ValidatePassword enforces the length rules. A password of multi-byte
// characters can be short enough in characters and still exceed the
// bcrypt byte limit.
func ValidatePassword(pw string) error {
	n := utf8.RuneCountInString(pw)
	switch {
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	case len(pw) > MaxPasswordBytes:
		return ErrPasswordTooWide
	}
	return nil
}

// PasswordRules describes the rules for error messages and docs.
func PasswordRules() string {
	return fmt.Sprintf("Password must be %d to %d characters and at most %d bytes.", MinPasswordLength, MaxPasswordLength, MaxPasswordBytes)
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. Malformed hashes never match.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
