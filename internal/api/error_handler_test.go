package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/api/handler"
	"github.com/securelog/admin-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"user not found", fmt.Errorf("%w: id 3", domain.ErrUserNotFound), http.StatusNotFound},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound},
		{"exists", fmt.Errorf("%w: username taken", domain.ErrUserExists), http.StatusConflict},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled", domain.ErrAccountDisabled, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "userId is required"), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body["message"]; !ok {
				t.Fatalf("expected message field, got %v", body)
			}
			if v, ok := body["data"]; !ok || v != nil {
				t.Fatalf("expected null data, got %v", body)
			}
			if tc.code == http.StatusInternalServerError && body["message"] != "internal server error" {
				t.Fatalf("internal error details leaked: %v", body["message"])
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&handler.ValidationError{Fields: map[string]string{
		"email": "must be a well-formed email address",
	}}, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["email"] != "must be a well-formed email address" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHTTPErrorHandler_PasswordTooLong(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPut, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("update account: %w", domain.ErrPasswordTooLong), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["password"] == "" {
		t.Fatalf("expected a password message, got %v", body)
	}
}
