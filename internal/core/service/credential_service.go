package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/ports"
)

// CredentialService combines the password hasher and the identity store to
// implement registration and password verification.
type CredentialService struct {
	repo   ports.IdentityRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger

	// dummyHash absorbs a password compare when the email is unknown, so a
	// miss costs the same as a wrong password.
	dummyHash string
}

func NewCredentialService(repo ports.IdentityRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *CredentialService {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Warn().Err(err).Msg("failed to precompute dummy hash")
	}
	return &CredentialService{repo: repo, hasher: hasher, logger: logger, dummyHash: dummyHash}
}

// Register creates a new account. The email is looked up first so a duplicate
// fails with domain.ErrEmailTaken before anything is written; the unique
// index on email backs this up under concurrent registration.
func (s *CredentialService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("register: %w", domain.ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("register: role %q: %w", role, domain.ErrInvalidInput)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	// A hashing failure aborts registration outright; the plaintext is never
	// persisted as a fallback.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return created, nil
}

// Authenticate verifies a submitted password against the stored hash. An
// unknown email and a wrong password return the identical error so the
// response never reveals which of the two failed.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// The login itself succeeded; losing the timestamp is not worth
		// turning away an authenticated user.
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLoginAt = now
	}

	return user, nil
}

// ChangePassword replaces the caller's credential after re-verifying the
// current password.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("change password: %w", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// UpdateRole assigns a new role to an existing account. This is the only
// path by which a role changes after registration.
func (s *CredentialService) UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("update role: role %q: %w", role, domain.ErrInvalidInput)
	}

	user, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Msg("role updated")
	return user, nil
}

// List returns all accounts, without credentials.
func (s *CredentialService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
