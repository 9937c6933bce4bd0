package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestPolicy_Classify(t *testing.T) {
	pol := DefaultPolicy()
	cases := map[string]Access{
		"/api/admin/get":       Admin,
		"/api/admin":           Admin,
		"/api/admin/../admin/": Admin,
		"/api/administrator":   Authenticated,
		"/api/auth/login":      Public,
		"/api/auth/logout":     Authenticated,
		"/hi":                  Public,
		"/hello":               Public,
		"/hidden":              Authenticated,
		"/health/ready":        Public,
		"/metrics":             Public,
		"/swagger/index.html":  Public,
		"/api/me":              Authenticated,
		"/":                    Authenticated,
	}
	for p, want := range cases {
		if got := pol.Classify(p); got != want {
			t.Errorf("Classify(%q) = %s, want %s", p, got, want)
		}
	}
}

func TestPolicy_UnmatchedIsAdmin(t *testing.T) {
	pol := Policy{{Prefix: "/open", Access: Public}}
	if got := pol.Classify("/other"); got != Admin {
		t.Fatalf("expected admin for unmatched path, got %s", got)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		access Access
		role   string
		want   Decision
	}{
		{Admin, "", Unauthenticated},
		{Admin, "ROLE_USER", Forbidden},
		{Admin, "ROLE_ADMIN", Allow},
		{Authenticated, "", Unauthenticated},
		{Authenticated, "ROLE_USER", Allow},
		{Authenticated, "ROLE_ADMIN", Allow},
		{Public, "", Allow},
		{Public, "ROLE_USER", Allow},
	}
	for _, tc := range cases {
		if got := Decide(tc.access, tc.role); got != tc.want {
			t.Errorf("Decide(%s, %q) = %s, want %s", tc.access, tc.role, got, tc.want)
		}
	}
}

func TestGate(t *testing.T) {
	cases := []struct {
		name string
		path string
		role string
		want int
	}{
		{"admin surface anonymous", "/api/admin/get", "", http.StatusUnauthorized},
		{"admin surface user", "/api/admin/get", "ROLE_USER", http.StatusForbidden},
		{"admin surface admin", "/api/admin/get", "ROLE_ADMIN", http.StatusOK},
		{"me anonymous", "/api/me", "", http.StatusUnauthorized},
		{"me user", "/api/me", "ROLE_USER", http.StatusOK},
		{"probe anonymous", "/hi", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != "" {
				c.Set("role", tc.role)
				c.Set("username", "someone")
			}

			h := Gate(DefaultPolicy(), zerolog.Nop())(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := h(c)

			if tc.want == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if rec.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d", rec.Code)
				}
				return
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != tc.want {
				t.Fatalf("expected %d, got %v", tc.want, err)
			}
		})
	}
}
