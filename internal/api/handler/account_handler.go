package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/securelog/admin-api/internal/core/ports"
)

// AccountHandler serves the administrative account surface under /api/admin.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List returns every account.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.AccountView
// @Failure      401  {object}  apiResponse
// @Failure      403  {object}  apiResponse
// @Router       /api/admin/get [get]
func (h *AccountHandler) List(c echo.Context) error {
	users, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]ports.AccountView, 0, len(users))
	for _, u := range users {
		views = append(views, h.service.ToView(u))
	}
	return c.JSON(http.StatusOK, views)
}

// Get returns one account by id.
//
// @Summary      Get account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  apiResponse{data=ports.AccountView}
// @Failure      400  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/admin/get/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	user, err := h.service.GetAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope("Success", h.service.ToView(user)))
}

// Create registers a new account with the default role.
//
// @Summary      Create account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account fields"
// @Success      201   {object}  apiResponse{data=ports.AccountView}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  apiResponse
// @Router       /api/admin/create [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.CreateAccount(c.Request().Context(), req.toFields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope("User created successfully!", h.service.ToView(user)))
}

// Update overwrites the profile of an existing account.
//
// @Summary      Update account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query     int                   true  "Account id"
// @Param        body    body      updateAccountRequest  true  "Account fields"
// @Success      200     {object}  apiResponse{data=ports.AccountView}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  apiResponse
// @Failure      409     {object}  apiResponse
// @Router       /api/admin/update-user [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := parseID(c.QueryParam("userId"), "userId")
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), id, req.toFields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope("User updated successfully!", h.service.ToView(user)))
}

// UpdateRole reassigns the role of an account.
//
// @Summary      Update account role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId    query     int     true  "Account id"
// @Param        roleName  query     string  true  "Role name, e.g. ROLE_ADMIN"
// @Success      200       {object}  apiResponse{data=ports.AccountView}
// @Failure      400       {object}  apiResponse
// @Failure      404       {object}  apiResponse
// @Router       /api/admin/update-role [put]
func (h *AccountHandler) UpdateRole(c echo.Context) error {
	id, err := parseID(c.QueryParam("userId"), "userId")
	if err != nil {
		return err
	}
	roleName := c.QueryParam("roleName")
	if roleName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "roleName is required")
	}

	user, err := h.service.UpdateRole(c.Request().Context(), id, roleName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope("User role updated successfully!", h.service.ToView(user)))
}

// Delete removes an account.
//
// @Summary      Delete account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/admin/delete/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope("User deleted successfully!", nil))
}

func parseID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}
