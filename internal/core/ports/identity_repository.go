package ports

import (
	"context"
	"time"

	"github.com/fitsync/coaching-api/internal/core/domain"
)

// IdentityRepository defines the narrow persistence interface the identity
// core depends on. Implementations own all query details; callers only ever
// see domain.User values and the domain error taxonomy.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]domain.User, error)
}
