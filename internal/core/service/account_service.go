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

const dateLayout = "2006-01-02"

// AccountService owns the account lifecycle rules.
type AccountService struct {
	accounts ports.AccountRepository
	roles    ports.RoleRepository
	encoder  ports.PasswordEncoder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	encoder ports.PasswordEncoder,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		roles:    roles,
		encoder:  encoder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.User, error) {
	users, err := s.accounts.List(ctx)
	record("list", err)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return users, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.accounts.FindByID(ctx, id)
	record("get", err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) GetAccountByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.accounts.FindByUsername(ctx, username)
}

// CreateAccount rejects taken usernames and emails, hashes the password and
// stores the account with the ROLE_USER role.
func (s *AccountService) CreateAccount(ctx context.Context, in ports.AccountFields) (*domain.User, error) {
	user, err := s.createAccount(ctx, in)
	record("create", err)
	return user, err
}

func (s *AccountService) createAccount(ctx context.Context, in ports.AccountFields) (*domain.User, error) {
	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		s.logger.Warn().Err(err).Str("username", in.Username).Msg("account creation rejected")
		return nil, err
	}

	hash, err := s.encoder.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("default role: %w", err)
	}

	now := s.now()
	expiry := domain.DateOnly(now.AddDate(1, 0, 0))
	user := &domain.User{
		Username:              in.Username,
		Email:                 in.Email,
		Password:              hash,
		AccountNonLocked:      boolOr(in.AccountNonLocked, true),
		AccountNonExpired:     boolOr(in.AccountNonExpired, true),
		CredentialsNonExpired: boolOr(in.CredentialsNonExpired, true),
		Enabled:               boolOr(in.Enabled, true),
		CredentialsExpiryDate: dateOr(in.CredentialsExpiryDate, expiry),
		AccountExpiryDate:     dateOr(in.AccountExpiryDate, expiry),
		TwoFactorEnabled:      boolOr(in.TwoFactorEnabled, false),
		SignUpMethod:          stringOr(in.SignUpMethod, domain.DefaultSignUpMethod),
		Role:                  *role,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	created, err := s.accounts.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to create account")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("account created")
	return created, nil
}

// UpdateAccount overwrites the provided profile fields. The password is
// re-hashed only when a new plaintext is supplied.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, in ports.AccountFields) (*domain.User, error) {
	user, err := s.updateAccount(ctx, id, in)
	record("update", err)
	return user, err
}

func (s *AccountService) updateAccount(ctx context.Context, id int64, in ports.AccountFields) (*domain.User, error) {
	user, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var username, email string
	if in.Username != "" && in.Username != user.Username {
		username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		email = in.Email
	}
	if err := s.ensureAvailable(ctx, username, email); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("account update rejected")
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if in.Password != "" {
		hash, err := s.encoder.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}
	user.AccountNonLocked = boolOr(in.AccountNonLocked, user.AccountNonLocked)
	user.AccountNonExpired = boolOr(in.AccountNonExpired, user.AccountNonExpired)
	user.CredentialsNonExpired = boolOr(in.CredentialsNonExpired, user.CredentialsNonExpired)
	user.Enabled = boolOr(in.Enabled, user.Enabled)
	user.CredentialsExpiryDate = dateOr(in.CredentialsExpiryDate, user.CredentialsExpiryDate)
	user.AccountExpiryDate = dateOr(in.AccountExpiryDate, user.AccountExpiryDate)
	user.TwoFactorEnabled = boolOr(in.TwoFactorEnabled, user.TwoFactorEnabled)
	user.SignUpMethod = stringOr(in.SignUpMethod, user.SignUpMethod)
	user.UpdatedAt = s.now()

	updated, err := s.accounts.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("account updated")
	return updated, nil
}

// UpdateRole reassigns the role of an account. Both the account and the role
// row must exist.
func (s *AccountService) UpdateRole(ctx context.Context, id int64, roleName string) (*domain.User, error) {
	user, err := s.updateRole(ctx, id, roleName)
	record("update_role", err)
	return user, err
}

func (s *AccountService) updateRole(ctx context.Context, id int64, roleName string) (*domain.User, error) {
	user, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := domain.ParseAppRole(roleName)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	user.Role = *role
	user.UpdatedAt = s.now()

	updated, err := s.accounts.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Str("role", name.String()).Msg("account role updated")
	return updated, nil
}

// DeleteAccount removes the account permanently.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	err := s.accounts.Delete(ctx, id)
	record("delete", err)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("account deleted")
	return nil
}

// ToView projects an account to its external shape, dropping the password.
func (s *AccountService) ToView(user *domain.User) ports.AccountView {
	return ports.AccountView{
		ID:                    user.ID,
		Username:              user.Username,
		Email:                 user.Email,
		AccountNonLocked:      user.AccountNonLocked,
		AccountNonExpired:     user.AccountNonExpired,
		CredentialsNonExpired: user.CredentialsNonExpired,
		Enabled:               user.Enabled,
		CredentialsExpiryDate: formatDate(user.CredentialsExpiryDate),
		AccountExpiryDate:     formatDate(user.AccountExpiryDate),
		TwoFactorEnabled:      user.TwoFactorEnabled,
		SignUpMethod:          user.SignUpMethod,
		Role:                  user.Role.Name.String(),
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}

// ensureAvailable checks non-empty username and email against the store.
func (s *AccountService) ensureAvailable(ctx context.Context, username, email string) error {
	if username != "" {
		taken, err := s.accounts.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: username %q is already taken", domain.ErrUserExists, username)
		}
	}
	if email != "" {
		taken, err := s.accounts.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: email %q is already in use", domain.ErrUserExists, email)
		}
	}
	return nil
}

func record(operation string, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrRoleNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, domain.ErrUserExists):
		result = metrics.ResultConflict
	default:
		result = metrics.ResultError
	}
	metrics.AccountOperationsTotal.WithLabelValues(operation, result).Inc()
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func dateOr(v *time.Time, fallback time.Time) time.Time {
	if v == nil {
		return fallback
	}
	return domain.DateOnly(*v)
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
