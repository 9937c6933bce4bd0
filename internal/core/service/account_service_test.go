package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
)

func aliceFields() ports.AccountFields {
	return ports.AccountFields{Username: "alice", Email: "a@x.io", Password: "pw1"}
}

func TestCreateAccount_Defaults(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)
	f.service.now = func() time.Time { return now }

	user, err := f.service.CreateAccount(context.Background(), aliceFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if user.Password == "pw1" || user.Password != "hashed:pw1" {
		t.Fatalf("expected hashed password, got %q", user.Password)
	}
	if !user.Enabled || !user.AccountNonLocked || !user.AccountNonExpired || !user.CredentialsNonExpired {
		t.Fatalf("expected all lifecycle flags enabled: %+v", user)
	}
	if user.TwoFactorEnabled {
		t.Fatal("expected two-factor disabled")
	}
	if user.SignUpMethod != "email" {
		t.Fatalf("expected sign-up method email, got %q", user.SignUpMethod)
	}
	if user.Role.Name != domain.RoleUser {
		t.Fatalf("expected ROLE_USER, got %s", user.Role.Name)
	}
	want := time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)
	if !user.AccountExpiryDate.Equal(want) || !user.CredentialsExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %s, got %s / %s", want, user.AccountExpiryDate, user.CredentialsExpiryDate)
	}
}

func TestCreateAccount_ExplicitFields(t *testing.T) {
	f := newFixture(t)
	expiry := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	in := aliceFields()
	in.Enabled = boolPtr(false)
	in.TwoFactorEnabled = boolPtr(true)
	in.AccountExpiryDate = &expiry
	in.SignUpMethod = "sso"

	user, err := f.service.CreateAccount(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Enabled || !user.TwoFactorEnabled || user.SignUpMethod != "sso" {
		t.Fatalf("explicit fields not applied: %+v", user)
	}
	if !user.AccountExpiryDate.Equal(expiry) {
		t.Fatalf("expected account expiry %s, got %s", expiry, user.AccountExpiryDate)
	}
}

func TestCreateAccount_DuplicateUsernameOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.service.CreateAccount(ctx, aliceFields()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hashesBefore := f.encoder.hashes.Load()

	dupName := ports.AccountFields{Username: "alice", Email: "other@x.io", Password: "pw"}
	if _, err := f.service.CreateAccount(ctx, dupName); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for username, got %v", err)
	}
	dupEmail := ports.AccountFields{Username: "alice2", Email: "a@x.io", Password: "pw"}
	if _, err := f.service.CreateAccount(ctx, dupEmail); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for email, got %v", err)
	}

	if f.encoder.hashes.Load() != hashesBefore {
		t.Fatal("rejected creates must not hash the password")
	}
	users, _ := f.service.ListAccounts(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 account, got %d", len(users))
	}
}

func TestCreateAccount_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := ports.AccountFields{Username: "race", Email: "race@x.io", Password: "pw"}
			_, err := f.service.CreateAccount(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrUserExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 || conflicts != workers-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d conflicts", successes, conflicts)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.GetAccount(context.Background(), 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.service.CreateAccount(ctx, aliceFields())
	originalHash := user.Password

	updated, err := f.service.UpdateAccount(ctx, user.ID, ports.AccountFields{
		Email:   "alice@new.io",
		Enabled: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Email != "alice@new.io" || updated.Enabled {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Username != "alice" {
		t.Fatalf("username should be kept, got %q", updated.Username)
	}
	if updated.Password != originalHash {
		t.Fatal("password must not be re-hashed without a new plaintext")
	}

	rehashed, err := f.service.UpdateAccount(ctx, user.ID, ports.AccountFields{Password: "new-pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rehashed.Password != "hashed:new-pw" {
		t.Fatalf("expected new hash, got %q", rehashed.Password)
	}
}

func TestUpdateAccount_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.service.CreateAccount(ctx, aliceFields())
	if _, err := f.service.CreateAccount(ctx, ports.AccountFields{Username: "bob", Email: "b@x.io", Password: "pw"}); err != nil {
		t.Fatalf("seed bob: %v", err)
	}

	if _, err := f.service.UpdateAccount(ctx, 404, ports.AccountFields{Email: "z@x.io"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.service.UpdateAccount(ctx, alice.ID, ports.AccountFields{Username: "bob"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for taken username, got %v", err)
	}
	if _, err := f.service.UpdateAccount(ctx, alice.ID, ports.AccountFields{Email: "b@x.io"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for taken email, got %v", err)
	}
	// Re-submitting the account's own username is not a conflict.
	if _, err := f.service.UpdateAccount(ctx, alice.ID, ports.AccountFields{Username: "alice"}); err != nil {
		t.Fatalf("unexpected error for unchanged username: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.service.CreateAccount(ctx, aliceFields())

	updated, err := f.service.UpdateRole(ctx, user.ID, "ROLE_ADMIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role.Name != domain.RoleAdmin {
		t.Fatalf("expected ROLE_ADMIN, got %s", updated.Role.Name)
	}

	stored, _ := f.service.GetAccount(ctx, user.ID)
	if stored.Role.Name != domain.RoleAdmin {
		t.Fatalf("role change not persisted, got %s", stored.Role.Name)
	}

	if _, err := f.service.UpdateRole(ctx, user.ID, "ROLE_ROOT"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	unchanged, err := f.service.GetAccount(ctx, user.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if unchanged.Role.Name != domain.RoleAdmin {
		t.Fatalf("a rejected role name must leave the role unchanged, got %s", unchanged.Role.Name)
	}
	if _, err := f.service.UpdateRole(ctx, 404, "ROLE_ADMIN"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.service.CreateAccount(ctx, aliceFields())

	if err := f.service.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.GetAccount(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := f.service.DeleteAccount(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestToView_OmitsPassword(t *testing.T) {
	f := newFixture(t)
	user, _ := f.service.CreateAccount(context.Background(), aliceFields())

	view := f.service.ToView(user)
	if view.Role != "ROLE_USER" {
		t.Fatalf("expected role name, got %q", view.Role)
	}
	if len(view.AccountExpiryDate) != len("2006-01-02") {
		t.Fatalf("expected YYYY-MM-DD date, got %q", view.AccountExpiryDate)
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	assertNotContains(t, string(raw), "hashed:pw1")
	assertNotContains(t, string(raw), "password")
}
