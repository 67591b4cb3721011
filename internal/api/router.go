package api

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/usermgmt/accounts-api/docs"
	"github.com/usermgmt/accounts-api/internal/api/handler"
	"github.com/usermgmt/accounts-api/internal/api/middleware"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/internal/core/security"
)

// Dependencies groups everything the router needs. Registerer and Gatherer
// default to the global Prometheus registry; Now defaults to time.Now.
type Dependencies struct {
	Auth         ports.AuthService
	Accounts     ports.AccountService
	Verifier     ports.TokenVerifier
	HealthChecks map[string]handler.HealthCheck
	Logger       zerolog.Logger

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Now        func() time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Accounts)
	adminHandler := handler.NewAdminHandler(deps.Accounts)
	authn := middleware.Auth(deps.Verifier, deps.Now)

	// --- Public routes ---
	e.POST("/users", userHandler.Register)
	e.POST("/login", authHandler.UserLogin)
	e.POST("/admin/login", authHandler.AdminLogin)

	// --- User routes (any authenticated principal) ---
	userGate := []echo.MiddlewareFunc{authn, middleware.Require(security.RequireUser)}
	e.GET("/me", userHandler.Me, userGate...)
	e.PUT("/users/:id", userHandler.Update, userGate...)
	e.DELETE("/users/:id", userHandler.Delete, userGate...)

	// --- Admin routes ---
	admin := e.Group("/admin", authn, middleware.Require(security.RequireAdmin))
	admin.GET("", adminHandler.Dashboard)
	admin.GET("/me", adminHandler.Me)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/admins", adminHandler.CreateAdmin, middleware.Require(security.RequireSuperAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
