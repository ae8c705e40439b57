package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/ports"
)

// accessClaims is the wire shape of the canonical claim set. The subject is
// the user id; email and role ride alongside the registered claims.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with HMAC-SHA256 signed JWTs. The
// signing secret and issuer are process-wide configuration, fixed at
// construction and never client-supplied.
type JWTCodec struct {
	secret []byte
	issuer string
}

func NewJWTCodec(secret, issuer string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret must not be empty")
	}
	return &JWTCodec{secret: []byte(secret), issuer: issuer}, nil
}

// Issue signs the claims into a bearer token expiring at now + ttl.
func (c *JWTCodec) Issue(claims ports.Claims, ttl time.Duration) (string, error) {
	if claims.UserID == "" {
		return "", errors.New("jwt: claims missing subject id")
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Decode validates signature, algorithm, expiry, issuer and claim shape, and
// returns the canonical claims. Only two failures exist for callers:
// domain.ErrTokenExpired and domain.ErrTokenMalformed. There is deliberately
// no "treat as anonymous" path.
func (c *JWTCodec) Decode(tokenString string) (*ports.Claims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Pin the algorithm to the configured one; a token announcing any
		// other method is rejected before signature verification.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("decode token: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("decode token: %w", domain.ErrTokenMalformed)
	}
	if !token.Valid {
		return nil, fmt.Errorf("decode token: %w", domain.ErrTokenMalformed)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("decode token: missing subject: %w", domain.ErrTokenMalformed)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("decode token: missing expiry: %w", domain.ErrTokenMalformed)
	}
	if claims.Issuer != c.issuer {
		return nil, fmt.Errorf("decode token: issuer mismatch: %w", domain.ErrTokenMalformed)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("decode token: unknown role: %w", domain.ErrTokenMalformed)
	}

	out := &ports.Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
