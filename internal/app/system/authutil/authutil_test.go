package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want error
	}{
		{"empty", "", ErrPasswordTooShort},
		{"four chars", "abcd", ErrPasswordTooShort},
		{"at minimum", "abcde", nil},
		{"typical", "testpass123", nil},
		{"at maximum", strings.Repeat("a", MaxPasswordLength), nil},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"three umlauts", "äöü", ErrPasswordTooShort},
		{"three multi-byte chars", "éé€", ErrPasswordTooShort},
		{"five umlauts", "äöüäö", nil},
		{"multi-byte over byte limit", strings.Repeat("é", 40), ErrPasswordTooWide},
		{"multi-byte over char limit", strings.Repeat("é", MaxPasswordLength+1), ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePassword(tt.pw); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.pw, got, tt.want)
			}
		})
	}
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	h1, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("expected different hashes for same password (random salt)")
	}
	if h1 == "testpass123" || !strings.HasPrefix(h1, "$2") {
		t.Errorf("unexpected hash %q", h1)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name string
		pw   string
		hash string
		want bool
	}{
		{"correct", "testpass123", hash, true},
		{"incorrect", "wrongpass", hash, false},
		{"empty password", "", hash, false},
		{"invalid hash", "testpass123", "not-a-valid-hash", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.pw, tt.hash); got != tt.want {
				t.Errorf("CheckPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordRules(t *testing.T) {
	want := "Password must be 5 to 72 characters and at most 72 bytes."
	if got := PasswordRules(); got != want {
		t.Errorf("PasswordRules() = %q, want %q", got, want)
	}
}
