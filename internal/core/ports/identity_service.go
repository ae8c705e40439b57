package ports

import (
	"context"

	"github.com/fitsync/coaching-api/internal/core/domain"
)

// CredentialService manages accounts and verifies submitted credentials.
type CredentialService interface {
	// Register creates a new account with the given role, hashing the
	// password before it is persisted. A known email fails with
	// domain.ErrEmailTaken and leaves the store untouched.
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	// Authenticate verifies email and password. An unknown email and a wrong
	// password both return domain.ErrInvalidCredentials so callers cannot
	// enumerate accounts. On success the last-login timestamp is updated.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// Session is the response shape for a successful authentication.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SessionService turns successful authentication into bearer tokens.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*Session, *domain.User, error)
	// RegisterAndIssue registers a client account and immediately issues a
	// session, so registration doubles as first login.
	RegisterAndIssue(ctx context.Context, name, email, password string) (*Session, *domain.User, error)
}

// LoginThrottle limits repeated failed login attempts per account.
type LoginThrottle interface {
	// Allow reports whether another attempt for this email is permitted.
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
