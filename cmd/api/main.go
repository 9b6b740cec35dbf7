package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/forkwell/recipe-api/config"
	"github.com/forkwell/recipe-api/internal/api"
	"github.com/forkwell/recipe-api/internal/database"
	"github.com/forkwell/recipe-api/internal/middleware"
	"github.com/forkwell/recipe-api/internal/router"
	"github.com/forkwell/recipe-api/internal/server"
	"github.com/forkwell/recipe-api/internal/service"
)

func main() {
	if config.IsDevelopment() {
		// Missing .env is fine, real env vars win either way.
		_ = godotenv.Load()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)

	var loginLimiter *middleware.RateLimiter
	if redisClient != nil {
		loginLimiter = middleware.NewLoginRateLimiter(redisClient)
	}

	engine := router.New(router.Handlers{
		Users:        api.NewUserHandler(authService),
		Recipes:      api.NewRecipeHandler(service.NewRecipeService(db), service.NewImageService(s3Config)),
		Tags:         api.NewAttributeHandler(service.NewTagService(db)),
		Ingredients:  api.NewAttributeHandler(service.NewIngredientService(db)),
		Validator:    authService,
		LoginLimiter: loginLimiter,
	})

	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
