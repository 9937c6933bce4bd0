package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/internal/pkg/metrics"
)

// SeedAccount describes a default account ensured at startup.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     domain.AppRole
}

// DefaultSeedAccounts returns the "user" and "admin" accounts with the given
// initial passwords.
func DefaultSeedAccounts(userPassword, adminPassword string) []SeedAccount {
	return []SeedAccount{
		{Username: "user", Email: "user1@example.com", Password: userPassword, Role: domain.RoleUser},
		{Username: "admin", Email: "admin@example.com", Password: adminPassword, Role: domain.RoleAdmin},
	}
}

// Seeder ensures every role and the default accounts exist. Every step is
// existence-gated, so Seed is safe to run on each startup.
type Seeder struct {
	accounts ports.AccountRepository
	roles    ports.RoleRepository
	encoder  ports.PasswordEncoder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSeeder(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	encoder ports.PasswordEncoder,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		accounts: accounts,
		roles:    roles,
		encoder:  encoder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Seeder) Seed(ctx context.Context, seeds []SeedAccount) error {
	roles := make(map[domain.AppRole]*domain.Role, len(domain.AllRoles))
	for _, name := range domain.AllRoles {
		role, err := s.ensureRole(ctx, name)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		roles[name] = role
	}

	for _, seed := range seeds {
		role, ok := roles[seed.Role]
		if !ok {
			return fmt.Errorf("seed account %s: %w", seed.Username, domain.ErrRoleNotFound)
		}
		if err := s.ensureAccount(ctx, seed, role); err != nil {
			return fmt.Errorf("seed account %s: %w", seed.Username, err)
		}
	}
	return nil
}

func (s *Seeder) ensureRole(ctx context.Context, name domain.AppRole) (*domain.Role, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, err
	}

	role, err = s.roles.Create(ctx, name)
	if errors.Is(err, domain.ErrRoleExists) {
		// another instance created it first
		return s.roles.FindByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	metrics.SeededTotal.WithLabelValues("role").Inc()
	s.logger.Info().Str("role", name.String()).Msg("role seeded")
	return role, nil
}

func (s *Seeder) ensureAccount(ctx context.Context, seed SeedAccount, role *domain.Role) error {
	exists, err := s.accounts.ExistsByUsername(ctx, seed.Username)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug().Str("username", seed.Username).Msg("default account present")
		return nil
	}

	hash, err := s.encoder.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	expiry := domain.DateOnly(now.AddDate(1, 0, 0))
	_, err = s.accounts.Create(ctx, &domain.User{
		Username:              seed.Username,
		Email:                 seed.Email,
		Password:              hash,
		AccountNonLocked:      true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		Enabled:               true,
		CredentialsExpiryDate: expiry,
		AccountExpiryDate:     expiry,
		TwoFactorEnabled:      false,
		SignUpMethod:          domain.DefaultSignUpMethod,
		Role:                  *role,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return s.resolveConflict(ctx, seed)
	}
	if err != nil {
		return err
	}

	metrics.SeededTotal.WithLabelValues("account").Inc()
	s.logger.Info().Str("username", seed.Username).Str("role", role.Name.String()).Msg("default account seeded")
	return nil
}

// resolveConflict handles a create rejected as a duplicate. Either a concurrent
// seeder created the same username, or another account already holds the
// default email and the default account is skipped.
func (s *Seeder) resolveConflict(ctx context.Context, seed SeedAccount) error {
	exists, err := s.accounts.ExistsByUsername(ctx, seed.Username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	s.logger.Warn().
		Str("username", seed.Username).
		Str("email", seed.Email).
		Msg("default account not seeded: email held by another account")
	return nil
}
