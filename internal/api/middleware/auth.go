package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
)

// Auth resolves the caller from the Authorization header and injects
// "username" and "role" into the context. A request without the header
// continues anonymously; the Gate decides whether that is acceptable.
// Accepted schemes are Bearer (JWT) and Basic. Both re-read the account, so
// the role is always the stored one.
//
// On paths pol classifies as Public a credential that cannot be resolved is
// ignored and the request continues anonymously.
func Auth(authService ports.AuthService, pol Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			user, err := resolveCaller(c, authService, authHeader)
			if err != nil {
				if pol.Classify(c.Request().URL.Path) == Public {
					return next(c)
				}
				return err
			}

			c.Set("username", user.Username)
			c.Set("role", user.Role.Name.String())
			return next(c)
		}
	}
}

func resolveCaller(c echo.Context, authService ports.AuthService, authHeader string) (*domain.User, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	ctx := c.Request().Context()
	switch {
	case strings.EqualFold(parts[0], "bearer"):
		user, err := authService.AuthenticateToken(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, credentialError(err, "invalid token")
		}
		return user, nil

	case strings.EqualFold(parts[0], "basic"):
		username, password, ok := c.Request().BasicAuth()
		if !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		user, err := authService.Authenticate(ctx, username, password)
		if err != nil {
			return nil, credentialError(err, "invalid credentials")
		}
		return user, nil

	default:
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unsupported authorization scheme")
	}
}

// credentialError turns rejected credentials into 401. Any other error, such
// as a store outage, is returned unchanged for the error handler.
func credentialError(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, msg)
	case errors.Is(err, domain.ErrAccountDisabled):
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrAccountDisabled.Error())
	default:
		return err
	}
}
