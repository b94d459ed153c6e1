package auth

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	token, err := ti.Generate("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ti.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Generate("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = NewTokenIssuer("secret-b").Validate(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	ti := NewTokenIssuer("s")
	for _, in := range []string{"", "abc", "a.b.c"} {
		if _, err := ti.Validate(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
