package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/pkg/metrics"
)

// Access is the protection level of a request target.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision is the outcome of the gate for one request.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// caller states, used as the column index of decisionTable.
const (
	anonymous = iota
	nonAdmin
	admin
)

var decisionTable = map[Access][3]Decision{
	Public:        {Allow, Allow, Allow},
	Authenticated: {Unauthenticated, Allow, Allow},
	Admin:         {Unauthenticated, Forbidden, Allow},
}

// Rule binds a path prefix to an access level.
type Rule struct {
	Prefix string
	Access Access
}

// Policy is an ordered rule table. The first rule whose prefix matches the
// request path on a segment boundary wins; unmatched paths are Admin.
type Policy []Rule

// DefaultPolicy is the access table of the service.
func DefaultPolicy() Policy {
	return Policy{
		{Prefix: "/api/admin", Access: Admin},
		{Prefix: "/api/auth/login", Access: Public},
		{Prefix: "/hi", Access: Public},
		{Prefix: "/hello", Access: Public},
		{Prefix: "/health", Access: Public},
		{Prefix: "/metrics", Access: Public},
		{Prefix: "/swagger", Access: Public},
		{Prefix: "/", Access: Authenticated},
	}
}

// Classify returns the access level of p.
func (pol Policy) Classify(p string) Access {
	p = path.Clean("/" + p)
	for _, r := range pol {
		if matchPrefix(p, r.Prefix) {
			return r.Access
		}
	}
	return Admin
}

func matchPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// Decide applies the decision table to an access level and the caller role.
// An empty role means the caller is not authenticated.
func Decide(access Access, role string) Decision {
	state := anonymous
	switch {
	case role == domain.RoleAdmin.String():
		state = admin
	case role != "":
		state = nonAdmin
	}
	row, ok := decisionTable[access]
	if !ok {
		return Forbidden
	}
	return row[state]
}

// Gate enforces pol on every request. It must run after Auth.
func Gate(pol Policy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqPath := c.Request().URL.Path
			access := pol.Classify(reqPath)
			role, _ := c.Get("role").(string)

			decision := Decide(access, role)
			metrics.AccessDecisionsTotal.WithLabelValues(access.String(), decision.String()).Inc()

			switch decision {
			case Allow:
				return next(c)
			case Unauthenticated:
				log.Warn().Str("path", reqPath).Str("access", access.String()).Msg("unauthenticated request rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			default:
				username, _ := c.Get("username").(string)
				log.Warn().Str("path", reqPath).Str("username", username).Str("role", role).Msg("forbidden request rejected")
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
		}
	}
}
