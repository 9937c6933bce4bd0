package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/infrastructure/db/memory"
)

// fakeEncoder is a reversible stand-in for bcrypt that keeps tests fast.
type fakeEncoder struct {
	hashes atomic.Int64
}

func (e *fakeEncoder) Hash(plaintext string) (string, error) {
	e.hashes.Add(1)
	return "hashed:" + plaintext, nil
}

func (e *fakeEncoder) Verify(hash, plaintext string) error {
	if hash != "hashed:"+plaintext {
		return errors.New("mismatch")
	}
	return nil
}

type fixture struct {
	accounts *memory.AccountRepository
	roles    *memory.RoleRepository
	encoder  *fakeEncoder
	service  *AccountService
}

// newFixture returns an account service over an empty memory store with both
// roles present.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: memory.NewAccountRepository(),
		roles:    memory.NewRoleRepository(),
		encoder:  &fakeEncoder{},
	}
	for _, r := range domain.AllRoles {
		if _, err := f.roles.Create(context.Background(), r); err != nil {
			t.Fatalf("create role %s: %v", r, err)
		}
	}
	f.service = NewAccountService(f.accounts, f.roles, f.encoder, zerolog.Nop())
	return f
}

func boolPtr(b bool) *bool { return &b }

func assertNotContains(t *testing.T, s, sub string) {
	t.Helper()
	if strings.Contains(s, sub) {
		t.Fatalf("%q must not contain %q", s, sub)
	}
}
