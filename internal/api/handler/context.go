package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUsername returns the caller set by the Auth middleware. An empty value
// means the request reached the handler unauthenticated, which the policy
// gate should have prevented.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return username, nil
}
