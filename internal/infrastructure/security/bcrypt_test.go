package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/securelog/admin-api/internal/core/domain"
)

func TestBcryptEncoder_HashAndVerify(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	hash, err := enc.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret" || strings.Contains(hash, "secret") {
		t.Fatalf("hash leaks plaintext: %s", hash)
	}
	if err := enc.Verify(hash, "secret"); err != nil {
		t.Fatalf("verify correct password: %v", err)
	}
	if err := enc.Verify(hash, "Secret"); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestBcryptEncoder_Salted(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	a, _ := enc.Hash("same")
	b, _ := enc.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for the same plaintext")
	}
}

func TestNewBcryptEncoder_InvalidCostFallsBack(t *testing.T) {
	if got := NewBcryptEncoder(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptEncoder(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestBcryptEncoder_PasswordTooLong(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	if _, err := enc.Hash(strings.Repeat("é", 37)); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong for 74 bytes, got %v", err)
	}
	if _, err := enc.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes must hash: %v", err)
	}
}
