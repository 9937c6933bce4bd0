package ports

import (
	"context"

	"github.com/securelog/admin-api/internal/core/domain"
)

// AccountRepository persists user accounts. Implementations must enforce
// username and email uniqueness themselves and report collisions as
// domain.ErrUserExists; the service-level checks alone are racy.
type AccountRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no account has the id.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create assigns the id and returns the stored account.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// RoleRepository persists the fixed set of roles.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when the role row is absent.
	FindByName(ctx context.Context, name domain.AppRole) (*domain.Role, error)
	Create(ctx context.Context, name domain.AppRole) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
}
