package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleExists         = errors.New("role already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled, locked or expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// DefaultSignUpMethod is the sign-up method recorded when none is provided.
const DefaultSignUpMethod = "email"

// User is a persisted account. Password always holds a one-way hash.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string

	AccountNonLocked      bool
	AccountNonExpired     bool
	CredentialsNonExpired bool
	Enabled               bool

	CredentialsExpiryDate time.Time
	AccountExpiryDate     time.Time

	TwoFactorEnabled bool
	SignUpMethod     string

	Role Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAuthenticate reports whether the account lifecycle flags allow a login
// at the given instant.
func (u *User) CanAuthenticate(now time.Time) bool {
	if !u.Enabled || !u.AccountNonLocked || !u.AccountNonExpired || !u.CredentialsNonExpired {
		return false
	}
	if !u.AccountExpiryDate.IsZero() && now.After(endOfDay(u.AccountExpiryDate)) {
		return false
	}
	if !u.CredentialsExpiryDate.IsZero() && now.After(endOfDay(u.CredentialsExpiryDate)) {
		return false
	}
	return true
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Username string
	Role     AppRole
}

// IsAdmin reports whether the caller holds the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	JWTToken string   `json:"jwt_token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// DateOnly truncates t to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return DateOnly(t).Add(24*time.Hour - time.Nanosecond)
}
