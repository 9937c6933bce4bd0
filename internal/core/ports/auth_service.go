package ports

import (
	"context"

	"github.com/securelog/admin-api/internal/core/domain"
)

// AuthService verifies credentials and issues or parses bearer tokens.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.LoginResponse, error)
	ParseToken(token string) (*domain.Principal, error)
	// AuthenticateToken parses token and re-reads the account it names, so the
	// returned role is the stored one, not the role at issue time.
	AuthenticateToken(ctx context.Context, token string) (*domain.User, error)
}
