package handler

import (
	"time"

	"github.com/securelog/admin-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

func (r createAccountRequest) toFields() ports.AccountFields {
	return ports.AccountFields{
		Username:              r.Username,
		Email:                 r.Email,
		Password:              r.Password,
		AccountNonLocked:      r.AccountNonLocked,
		AccountNonExpired:     r.AccountNonExpired,
		CredentialsNonExpired: r.CredentialsNonExpired,
		Enabled:               r.Enabled,
		CredentialsExpiryDate: parseDate(r.CredentialsExpiryDate),
		AccountExpiryDate:     parseDate(r.AccountExpiryDate),
		TwoFactorEnabled:      r.TwoFactorEnabled,
		SignUpMethod:          r.SignUpMethod,
	}
}

func (r updateAccountRequest) toFields() ports.AccountFields {
	return ports.AccountFields{
		Username:              r.Username,
		Email:                 r.Email,
		Password:              r.Password,
		AccountNonLocked:      r.AccountNonLocked,
		AccountNonExpired:     r.AccountNonExpired,
		CredentialsNonExpired: r.CredentialsNonExpired,
		Enabled:               r.Enabled,
		CredentialsExpiryDate: parseDate(r.CredentialsExpiryDate),
		AccountExpiryDate:     parseDate(r.AccountExpiryDate),
		TwoFactorEnabled:      r.TwoFactorEnabled,
		SignUpMethod:          r.SignUpMethod,
	}
}

// parseDate returns nil for an empty string. The validator has already
// rejected malformed dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
