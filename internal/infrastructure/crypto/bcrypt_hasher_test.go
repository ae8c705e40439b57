package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatalf("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected self-describing bcrypt hash, got %q", hash)
	}
	if !h.Verify("s3cret!", hash) {
		t.Fatalf("correct password did not verify")
	}
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password-one")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h.Verify("password-two", hash) {
		t.Fatalf("distinct password verified against foreign hash")
	}
}

func TestBcryptHasher_SaltUniqueness(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !h.Verify("same-password", first) || !h.Verify("same-password", second) {
		t.Fatalf("both salted hashes should verify")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must never verify")
	}
	if h.Verify("anything", "") {
		t.Fatalf("empty hash must never verify")
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error hashing empty password")
	}
}

func TestBcryptHasher_CostOutOfRange(t *testing.T) {
	h := NewBcryptHasher(99)

	hash, err := h.Hash("pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost parse: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected fallback to default cost, got %d", cost)
	}
}
