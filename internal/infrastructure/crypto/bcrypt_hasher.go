package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements ports.PasswordHasher on top of bcrypt. The cost
// factor is fixed at construction and encoded into every hash, so hashes
// produced under an older cost keep verifying after the cost is raised.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost factor. Costs outside
// the bcrypt range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a salted, self-describing hash of plaintext. Empty input is
// refused: an empty submitted password must never produce a storable hash.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("bcrypt: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares plaintext against a stored hash in constant time with
// respect to mismatches. Malformed hashes report false.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
