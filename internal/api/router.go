package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/securelog/admin-api/docs"
	"github.com/securelog/admin-api/internal/api/handler"
	"github.com/securelog/admin-api/internal/api/middleware"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/pkg/logger"
)

// RouterDeps are the collaborators the HTTP layer needs.
type RouterDeps struct {
	Accounts ports.AccountService
	Auth     ports.AuthService
	Logger   zerolog.Logger

	// HealthChecks are run by /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.Checker

	// Policy defaults to middleware.DefaultPolicy.
	Policy middleware.Policy

	// Registerer and Gatherer back the HTTP metrics. When nil a private
	// registry is used so routers can be built repeatedly in tests.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg, gatherer := deps.Registerer, deps.Gatherer
	if reg == nil || gatherer == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	}
	pol := deps.Policy
	if pol == nil {
		pol = middleware.DefaultPolicy()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.EchoRequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(middleware.Auth(deps.Auth, pol))
	e.Use(middleware.Gate(pol, deps.Logger))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Accounts)
	probeHandler := handler.NewProbeHandler()
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Administrative surface ---
	admin := e.Group("/api/admin")
	admin.GET("/get", accountHandler.List)
	admin.GET("/get/:id", accountHandler.Get)
	admin.POST("/create", accountHandler.Create)
	admin.PUT("/update-user", accountHandler.Update)
	admin.PUT("/update-role", accountHandler.UpdateRole)
	admin.DELETE("/delete/:id", accountHandler.Delete)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/me", authHandler.Me)

	// --- Probes ---
	e.GET("/hi", probeHandler.Hi)
	e.GET("/hello", probeHandler.Hello)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
