package ports

import (
	"time"

	"github.com/fitsync/coaching-api/internal/core/domain"
)

// PasswordHasher turns plaintext passwords into one-way salted hashes and
// verifies submitted passwords against them. The hash string is
// self-describing (algorithm, cost, salt and digest encoded together), so no
// separate salt storage is required.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored hash. A malformed
	// hash is a mismatch, never an error: rejection is the only failure mode.
	Verify(plaintext, hash string) bool
}

// Claims is the single canonical claim set carried by every access token.
// Every issuance and validation path uses this shape; tokens missing any
// required field are rejected rather than read defensively.
type Claims struct {
	UserID    string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs claims into tamper-evident bearer tokens and validates
// them back. Decode returns domain.ErrTokenExpired past the expiry and
// domain.ErrTokenMalformed for any structural, signature, algorithm or
// claim-shape violation.
type TokenCodec interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	Decode(token string) (*Claims, error)
}
