package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"foodgram/database"
	"foodgram/internal/config"
	"foodgram/internal/http-api/handler"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"
	"foodgram/internal/shortlink"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	media, err := storage.NewDiskStore(cfg.MediaRoot, cfg.BaseURL)
	if err != nil {
		log.Fatalf("could not set up media storage: %v", err)
	}

	// short links degrade to numeric codes when redis is unreachable
	links, err := shortlink.New(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, short links fall back to recipe ids", "error", err)
		links = nil
	} else {
		defer links.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, subRepo, recipeRepo, media)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, relationRepo, subRepo, media)
	relationService := service.NewRelationService(relationRepo, recipeRepo, userRepo, subRepo)
	shoppingListService := service.NewShoppingListService(relationRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, relationService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)
	recipeHandler := handler.NewRecipeHandler(
		recipeService, relationService, shoppingListService, userService, links, cfg.BaseURL)
	shortLinkHandler := handler.NewShortLinkHandler(links, recipeService)

	// Middleware
	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)
	throttle := middleware.NewLoginRateLimiter(cfg.LoginRatePerMinute).Middleware()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"), throttle)
	userHandler.RegisterRoutes(api.Group("/users"), requireAuth, optionalAuth)
	ingredientHandler.RegisterRoutes(api.Group("/ingredients"))
	recipeHandler.RegisterRoutes(api.Group("/recipes"), requireAuth, optionalAuth)

	r.GET("/s/:code", shortLinkHandler.Redirect)
	r.Static("/media", cfg.MediaRoot)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
