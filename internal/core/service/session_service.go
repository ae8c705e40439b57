package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/ports"
)

// TokenTypeBearer is the token_type value returned with every session.
const TokenTypeBearer = "bearer"

// SessionService turns successful authentication into signed bearer tokens.
// One TTL, taken from configuration, applies to every token it issues.
type SessionService struct {
	creds    ports.CredentialService
	codec    ports.TokenCodec
	throttle ports.LoginThrottle
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewSessionService(creds ports.CredentialService, codec ports.TokenCodec, throttle ports.LoginThrottle, ttl time.Duration, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionService{creds: creds, codec: codec, throttle: throttle, ttl: ttl, logger: logger}
}

// Login authenticates the credentials and mints a session token. Repeated
// failures for the same email trip the throttle; a throttle backend outage
// fails open, since the throttle is advisory while the password check is not.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.Session, *domain.User, error) {
	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		allowed = true
	}
	if !allowed {
		return nil, nil, domain.ErrTooManyAttempts
	}

	user, err := s.creds.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if terr := s.throttle.RecordFailure(ctx, email); terr != nil {
				s.logger.Warn().Err(terr).Msg("failed to record login failure")
			}
		}
		return nil, nil, err
	}

	if terr := s.throttle.Reset(ctx, email); terr != nil {
		s.logger.Warn().Err(terr).Msg("failed to reset login throttle")
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// RegisterAndIssue creates a client account and immediately issues a session,
// so a fresh registration does not require a second login round trip. The
// public registration path always assigns the client role; elevated roles
// only ever come from an explicit administrative promotion.
func (s *SessionService) RegisterAndIssue(ctx context.Context, name, email, password string) (*ports.Session, *domain.User, error) {
	user, err := s.creds.Register(ctx, name, email, password, domain.RoleClient)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

func (s *SessionService) issue(user *domain.User) (*ports.Session, error) {
	token, err := s.codec.Issue(ports.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, s.ttl)
	if err != nil {
		return nil, err
	}
	return &ports.Session{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
