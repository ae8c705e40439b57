package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/ports"
	"github.com/fitsync/coaching-api/internal/infrastructure/crypto"
)

type stubIdentityRepo struct {
	users   map[string]*domain.User // keyed by id
	byEmail map[string]string       // email -> id
	fail    error                   // when set, every call fails with it
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubIdentityRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	copy := cloneUser(user)
	r.users[copy.ID] = copy
	r.byEmail[copy.Email] = copy.ID
	return cloneUser(copy), nil
}

func (r *stubIdentityRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = at
	return nil
}

func (r *stubIdentityRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubIdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubIdentityRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func newTestCredentialService(repo *stubIdentityRepo) *CredentialService {
	return NewCredentialService(repo, crypto.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func TestCredentialService_Register_Success(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	user, err := svc.Register(context.Background(), "Alice", "ALICE@Example.com ", "s3cret!!", domain.RoleClient)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "s3cret!!" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestCredentialService_Register_Validation(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass", domain.RoleClient); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bob", "b@example.com", "pass", domain.Role("owner")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("store mutated on rejected registration")
	}
}

func TestCredentialService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "password", domain.RoleClient); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Other Bob", "bob@example.com", "password2", domain.RoleClient); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate registration mutated the store")
	}
}

func TestCredentialService_Authenticate_Success(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	created, err := svc.Register(context.Background(), "Carol", "carol@example.com", "g00dpass", domain.RoleTrainer)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	before := repo.users[created.ID].LastLoginAt
	time.Sleep(time.Millisecond)

	user, err := svc.Authenticate(context.Background(), "Carol@Example.COM", "g00dpass")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !repo.users[created.ID].LastLoginAt.After(before) {
		t.Fatalf("last login not updated")
	}
}

func TestCredentialService_Authenticate_NoEnumeration(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	if _, err := svc.Register(context.Background(), "Dave", "dave@example.com", "g00dpass", domain.RoleClient); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassErr := svc.Authenticate(context.Background(), "dave@example.com", "badpass")
	_, unknownErr := svc.Authenticate(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassErr)
	}
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	// The two failures must be the very same error value, not merely the
	// same kind, so nothing downstream can tell them apart.
	if wrongPassErr != unknownErr {
		t.Fatalf("expected identical errors, got %v vs %v", wrongPassErr, unknownErr)
	}
}

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	ports.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, hash string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, hash)
}

func TestCredentialService_Authenticate_UnknownEmailStillCompares(t *testing.T) {
	repo := newStubIdentityRepo()
	hasher := &countingHasher{PasswordHasher: crypto.NewBcryptHasher(bcrypt.MinCost)}
	svc := NewCredentialService(repo, hasher, zerolog.Nop())

	before := hasher.verifies
	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// A miss burns a compare against a dummy hash so its response time does
	// not give away that the account does not exist.
	if hasher.verifies != before+1 {
		t.Fatalf("expected one compare for unknown email, got %d", hasher.verifies-before)
	}
}

func TestCredentialService_Authenticate_StoreFault(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)
	repo.fail = domain.ErrStoreUnavailable

	if _, err := svc.Authenticate(context.Background(), "a@example.com", "pass"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("store outage must not look like bad credentials, got %v", err)
	}
}

func TestCredentialService_ChangePassword(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	user, err := svc.Register(context.Background(), "Erin", "erin@example.com", "oldpass1", domain.RoleClient)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass1", "newpass1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "erin@example.com", "oldpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted after change")
	}
	if _, err := svc.Authenticate(context.Background(), "erin@example.com", "newpass1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestCredentialService_UpdateRole(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := newTestCredentialService(repo)

	user, err := svc.Register(context.Background(), "Frank", "frank@example.com", "password", domain.RoleClient)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), user.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", updated.Role)
	}

	if _, err := svc.UpdateRole(context.Background(), user.ID, domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "missing-id", domain.RoleAdmin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
