package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProbeHandler serves the plain-text greeting endpoints.
type ProbeHandler struct{}

func NewProbeHandler() *ProbeHandler {
	return &ProbeHandler{}
}

// @Summary  Greeting probe
// @Tags     probe
// @Produce  plain
// @Success  200  {string}  string  "Hi"
// @Router   /hi [get]
func (h *ProbeHandler) Hi(c echo.Context) error {
	return c.String(http.StatusOK, "Hi")
}

// @Summary  Greeting probe
// @Tags     probe
// @Produce  plain
// @Success  200  {string}  string  "Hello"
// @Router   /hello [get]
func (h *ProbeHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello")
}
