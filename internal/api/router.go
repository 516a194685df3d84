package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/trinetra110/civix/docs"
	"github.com/trinetra110/civix/internal/api/handler"
	"github.com/trinetra110/civix/internal/api/middleware"
	"github.com/trinetra110/civix/internal/core/ports"
	"github.com/trinetra110/civix/internal/core/service"
	mongorepo "github.com/trinetra110/civix/internal/infrastructure/db/mongo"
	redisstore "github.com/trinetra110/civix/internal/infrastructure/db/redis"
)

// Dependencies carries the externally constructed collaborators the router
// wires into handlers.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Files     ports.FileStore
	Formatter ports.Formatter
	OAuth     ports.OAuthProvider
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civix"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(deps.DB)
	grievanceRepo := mongorepo.NewGrievanceRepository(deps.DB)
	stateStore := redisstore.NewStateStore(deps.Redis)

	authService := service.NewAuthService(userRepo, stateStore, deps.OAuth, deps.JWTSecret, 24*time.Hour)
	grievanceService := service.NewGrievanceService(grievanceRepo, userRepo, deps.Files, deps.Formatter, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	grievanceHandler := handler.NewGrievanceHandler(grievanceService)
	userHandler := handler.NewUserHandler(userRepo)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC("admin")

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/oauth/start", authHandler.OAuthStart)
	e.GET("/auth/oauth/callback", authHandler.OAuthCallback)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Grievance routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/grievances", grievanceHandler.Create)
	v1.GET("/grievances", grievanceHandler.List)
	v1.POST("/grievances/format", grievanceHandler.Format)
	v1.GET("/grievances/:id", grievanceHandler.Get)
	// RBAC here is the first gate only; the service re-derives the caller's
	// role from the directory before mutating.
	v1.POST("/grievances/:id/status", grievanceHandler.Transition, adminOnly)
	v1.GET("/users/:id", userHandler.Get, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
