package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fitsync/coaching-api/internal/api/handler"
	"github.com/fitsync/coaching-api/internal/api/middleware"
	"github.com/fitsync/coaching-api/internal/core/domain"
	"github.com/fitsync/coaching-api/internal/core/service"
	"github.com/fitsync/coaching-api/internal/infrastructure/config"
	"github.com/fitsync/coaching-api/internal/infrastructure/crypto"
	mongodb "github.com/fitsync/coaching-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fitsync/coaching-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("coaching"))

	// --- Dependencies ---
	identityRepo := mongodb.NewIdentityRepository(db)
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	codec, err := crypto.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		return nil, err
	}
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginAttemptsOver)

	creds := service.NewCredentialService(identityRepo, hasher, log)
	sessions := service.NewSessionService(creds, codec, throttle, cfg.JWT.TTL, log)

	authHandler := handler.NewAuthHandler(sessions)
	userHandler := handler.NewUserHandler(creds)
	guard := middleware.Auth(codec, identityRepo, log)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Guarded routes ---
	users := e.Group("/users", guard)
	users.GET("/me", userHandler.Me)
	users.PUT("/me/password", userHandler.ChangePassword)

	// --- Admin-only routes ---
	admin := e.Group("/admin", guard, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id/role", userHandler.UpdateRole)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e, nil
}
