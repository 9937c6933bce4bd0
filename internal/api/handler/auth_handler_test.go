package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/internal/core/service"
	"github.com/securelog/admin-api/internal/infrastructure/db/memory"
	"github.com/securelog/admin-api/internal/infrastructure/security"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	accounts := memory.NewAccountRepository()
	roles := memory.NewRoleRepository()
	encoder := security.NewBcryptEncoder(bcrypt.MinCost)
	for _, r := range domain.AllRoles {
		if _, err := roles.Create(context.Background(), r); err != nil {
			t.Fatalf("create role: %v", err)
		}
	}
	accountService := service.NewAccountService(accounts, roles, encoder, zerolog.Nop())
	if _, err := accountService.CreateAccount(context.Background(), ports.AccountFields{
		Username: "alice", Email: "a@x.io", Password: "pw1",
	}); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	authService := service.NewAuthService(accounts, encoder, "secret", time.Hour, zerolog.Nop())
	return NewAuthHandler(authService, accountService)
}

func TestAuthHandler_Login(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JWTToken == "" || resp.Username != "alice" || len(resp.Roles) != 1 || resp.Roles[0] != "ROLE_USER" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	h := newAuthHandler(t)

	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"username":"alice"}`)
	var ve *ValidationError
	if err := h.Login(c); !errors.As(err, &ve) || ve.Fields["password"] == "" {
		t.Fatalf("expected a password violation, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := newContext(http.MethodGet, "/api/me", "")
	c.Set("username", "alice")
	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, data := decodeEnvelope(t, rec)
	if msg != "Success" || data["username"] != "alice" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/me", "")
	var he *echo.HTTPError
	if err := h.Me(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a caller, got %v", err)
	}
}
