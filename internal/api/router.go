package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hazel260802/lecole-fast-track-24/internal/api/handler"
	"github.com/hazel260802/lecole-fast-track-24/internal/api/middleware"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/service"
	redisinfra "github.com/hazel260802/lecole-fast-track-24/internal/infrastructure/db/redis"
	"github.com/hazel260802/lecole-fast-track-24/internal/infrastructure/db/sqlite"
	"github.com/hazel260802/lecole-fast-track-24/internal/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, rdb *redis.Client, tokens *service.TokenService, hub *realtime.Hub, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("fasttrack"))

	// --- Dependencies ---
	store := sqlite.NewStore(db)
	userRepo := store.Users()
	productRepo := store.Products()
	limiter := redisinfra.NewLoginLimiter(rdb)

	authService := service.NewAuthService(userRepo, tokens, limiter)
	productService := service.NewProductService(productRepo)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	gate := middleware.Gate(tokens)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, gate)
	auth.POST("/update-secret-phrase", authHandler.UpdateSecretPhrase, gate)
	auth.GET("/users", authHandler.ListUsers, gate)

	// --- Product routes (plain CRUD, no policy) ---
	products := e.Group("/api/product")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create)
	products.PATCH("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)

	// --- Realtime channel ---
	phraseHandler := realtime.NewSecretPhraseHandler(userRepo, hub, log)
	e.GET("/ws", realtime.NewServer(hub, phraseHandler, log).Serve)

	// --- Ops surface ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
