package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonexchange/anonexchange-api/internal/api/handler"
	"github.com/anonexchange/anonexchange-api/internal/api/middleware"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
	"github.com/anonexchange/anonexchange-api/internal/core/service"
	mongodb "github.com/anonexchange/anonexchange-api/internal/infrastructure/db/mongo"
	redisdb "github.com/anonexchange/anonexchange-api/internal/infrastructure/db/redis"
	"github.com/anonexchange/anonexchange-api/internal/infrastructure/genai"
	"github.com/anonexchange/anonexchange-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The mailer is constructed by the caller so its worker pool shares the
// process lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, mailer ports.EmailDispatcher, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("anonexchange"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := productRepo.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure product indexes")
	}

	authService := service.NewAuthService(userRepo, mailer, cfg.JWTSecret, cfg.TokenTTL, log)
	messageService := service.NewMessageService(userRepo, log)
	productService := service.NewProductService(productRepo, userRepo, log)
	suggestService := service.NewSuggestService(
		genai.NewClient(genai.Config{Endpoint: cfg.Suggest.Endpoint, APIKey: cfg.Suggest.APIKey}),
		redisdb.NewWindowCounter(rdb, cfg.Suggest.Window),
		cfg.Suggest.Limit,
		log,
	)

	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService)
	productHandler := handler.NewProductHandler(productService)
	suggestHandler := handler.NewSuggestHandler(suggestService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Public routes ---
	api := e.Group("/api")
	api.POST("/sign-up", authHandler.SignUp)
	api.POST("/verify-code", authHandler.VerifyCode)
	api.POST("/sign-in", authHandler.SignIn)
	api.GET("/check-username-unique", authHandler.CheckUsernameUnique)
	api.POST("/send-message/:username", messageHandler.Send)
	api.GET("/products/:id", productHandler.Get)
	api.POST("/send-review/:id", productHandler.SendReview)
	api.GET("/get-review", productHandler.GetReviews)
	api.POST("/suggest-messages", suggestHandler.Suggest)

	// --- Session-scoped routes ---
	private := api.Group("", authMiddleware)
	private.POST("/create-product", productHandler.Create)
	private.GET("/get-product", productHandler.ListOwned)
	private.POST("/accept-reviews/:id", productHandler.SetAcceptingReviews)
	private.POST("/accept-messages", messageHandler.SetAccepting)
	private.GET("/accept-messages", messageHandler.Accepting)
	private.GET("/get-messages", messageHandler.List)
	private.DELETE("/delete-message/:id", messageHandler.Delete)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
