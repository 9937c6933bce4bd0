package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/internal/pkg/metrics"
)

// AuthService verifies credentials against the account store and issues
// HS256 bearer tokens.
type AuthService struct {
	accounts  ports.AccountRepository
	encoder   ports.PasswordEncoder
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	encoder ports.PasswordEncoder,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:  accounts,
		encoder:   encoder,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Authenticate returns the account when the password matches and the
// lifecycle flags allow a login. Unknown usernames are reported as
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.encoder.Verify(user.Password, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanAuthenticate(s.now()) {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrAccountDisabled):
			metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		}
		s.logger.Warn().Err(err).Str("username", username).Msg("login rejected")
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("username", user.Username).Msg("login succeeded")

	return &domain.LoginResponse{
		JWTToken: token,
		Username: user.Username,
		Roles:    []string{user.Role.Name.String()},
	}, nil
}

// ParseToken validates an HS256 token and returns the principal it names.
func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	roleName, _ := claims["role"].(string)
	role, err := domain.ParseAppRole(roleName)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Principal{Username: username, Role: role}, nil
}

// AuthenticateToken validates token and resolves its subject against the
// account store. Deleted accounts yield ErrInvalidCredentials and accounts
// that can no longer log in yield ErrAccountDisabled.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (*domain.User, error) {
	principal, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.FindByUsername(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CanAuthenticate(s.now()) {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"jti":  uuid.NewString(),
		"sub":  user.Username,
		"role": user.Role.Name.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
