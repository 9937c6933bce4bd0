package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/securelog/admin-api/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	accountService ports.AccountService
}

func NewAuthHandler(authService ports.AuthService, accountService ports.AccountService) *AuthHandler {
	return &AuthHandler{authService: authService, accountService: accountService}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  apiResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the account of the authenticated caller.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse{data=ports.AccountView}
// @Failure      401  {object}  apiResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	user, err := h.accountService.GetAccountByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope("Success", h.accountService.ToView(user)))
}
