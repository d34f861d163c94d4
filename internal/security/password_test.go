package security_test

import (
	"errors"
	"testing"

	"github.com/geocoder89/taskhub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "password123" {
		t.Fatalf("hash must not equal the plain password")
	}

	if err := h.Verify(hash, "password123"); err != nil {
		t.Fatalf("verify with correct password failed: %v", err)
	}

	err = h.Verify(hash, "wrong-password")
	if !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("got %v, want ErrPasswordMismatch", err)
	}
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if a == b {
		t.Fatalf("expected distinct salted hashes, got identical %q", a)
	}
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := security.NewBcryptHasher(0)

	err := h.Verify("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatalf("expected error for malformed hash")
	}
	if errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("malformed hash should not be reported as a plain mismatch")
	}
}
