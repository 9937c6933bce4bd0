package ports

import (
	"context"
	"time"

	"github.com/securelog/admin-api/internal/core/domain"
)

// AccountFields carries the mutable profile of an account. Nil pointers mean
// "not provided".
type AccountFields struct {
	Username string
	Email    string
	// Password is plaintext. Empty on update keeps the current hash.
	Password string

	AccountNonLocked      *bool
	AccountNonExpired     *bool
	CredentialsNonExpired *bool
	Enabled               *bool

	CredentialsExpiryDate *time.Time
	AccountExpiryDate     *time.Time

	TwoFactorEnabled *bool
	SignUpMethod     string
}

// AccountView is the external projection of an account. It never carries the
// password hash.
type AccountView struct {
	ID                    int64     `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	AccountNonLocked      bool      `json:"account_non_locked"`
	AccountNonExpired     bool      `json:"account_non_expired"`
	CredentialsNonExpired bool      `json:"credentials_non_expired"`
	Enabled               bool      `json:"enabled"`
	CredentialsExpiryDate string    `json:"credentials_expiry_date,omitempty"`
	AccountExpiryDate     string    `json:"account_expiry_date,omitempty"`
	TwoFactorEnabled      bool      `json:"two_factor_enabled"`
	SignUpMethod          string    `json:"sign_up_method"`
	Role                  string    `json:"role"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AccountService defines the account lifecycle use cases.
type AccountService interface {
	ListAccounts(ctx context.Context) ([]*domain.User, error)
	GetAccount(ctx context.Context, id int64) (*domain.User, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateAccount(ctx context.Context, in AccountFields) (*domain.User, error)
	UpdateAccount(ctx context.Context, id int64, in AccountFields) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, roleName string) (*domain.User, error)
	DeleteAccount(ctx context.Context, id int64) error
	ToView(user *domain.User) AccountView
}
