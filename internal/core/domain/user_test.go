package domain

import (
	"testing"
	"time"
)

func activeUser(expiry time.Time) *User {
	return &User{
		AccountNonLocked:      true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		Enabled:               true,
		AccountExpiryDate:     expiry,
		CredentialsExpiryDate: expiry,
	}
}

func TestUser_CanAuthenticate(t *testing.T) {
	expiry := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 5, 2, 0, 0, 1, 0, time.UTC)

	if !activeUser(expiry).CanAuthenticate(sameDay) {
		t.Error("expiry date is inclusive")
	}
	if activeUser(expiry).CanAuthenticate(nextDay) {
		t.Error("expected expired account to be rejected")
	}
	if !activeUser(time.Time{}).CanAuthenticate(nextDay) {
		t.Error("zero expiry means no expiry")
	}

	flags := map[string]func(u *User){
		"locked":              func(u *User) { u.AccountNonLocked = false },
		"disabled":            func(u *User) { u.Enabled = false },
		"account expired":     func(u *User) { u.AccountNonExpired = false },
		"credentials expired": func(u *User) { u.CredentialsNonExpired = false },
	}
	for name, mutate := range flags {
		u := activeUser(expiry)
		mutate(u)
		if u.CanAuthenticate(sameDay) {
			t.Errorf("%s account must be rejected", name)
		}
	}
}

func TestPrincipal_IsAdmin(t *testing.T) {
	if !(Principal{Username: "a", Role: RoleAdmin}).IsAdmin() {
		t.Error("admin principal")
	}
	if (Principal{Username: "u", Role: RoleUser}).IsAdmin() {
		t.Error("user principal")
	}
}
