// Package main provides the entry point for the volunteer tracker server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/volunteer-tracker/internal/api"
	"github.com/ericfisherdev/volunteer-tracker/internal/api/middleware"
	"github.com/ericfisherdev/volunteer-tracker/internal/config"
	"github.com/ericfisherdev/volunteer-tracker/internal/container"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := config.AutoLoadEnv("."); err != nil {
		return fmt.Errorf("failed to load environment files: %w", err)
	}

	cfg := config.NewConfig()

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			log.Printf("Error closing store: %v", cerr)
		}
	}()

	c.Sweeper.Start(ctx)

	router, err := setupRouter(ctx, cfg, c)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// setupRouter configures the gin router with the middleware stack and routes.
func setupRouter(ctx context.Context, cfg *config.AppConfig, c *container.Container) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.DefaultLoggingMiddleware())
	router.Use(middleware.DefaultRecoveryMiddleware())

	var oauthMiddleware []gin.HandlerFunc
	if cfg.IsRateLimitEnabled() {
		// A configured Redis address switches both limiters to the distributed
		// store, so multi-instance deployments share one budget.
		useRedis := cfg.GetRedisAddr() != ""

		apiManager, err := middleware.NewRateLimitManager(ctx, middleware.RateLimitConfig{
			Requests:      10,
			Window:        time.Minute,
			KeyPrefix:     "api",
			KeyGenerator:  middleware.IPKeyGenerator,
			UseRedis:      useRedis,
			RedisAddr:     cfg.GetRedisAddr(),
			RedisPassword: cfg.GetRedisPassword(),
			RedisDB:       cfg.GetRedisDB(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize API rate limiter: %w", err)
		}
		router.Use(apiManager.Middleware())

		// The OAuth start endpoint gets a tighter per-user budget on top.
		oauthManager, err := middleware.NewRateLimitManager(ctx, middleware.RateLimitConfig{
			Requests:      5,
			Window:        5 * time.Minute,
			KeyPrefix:     "oauth",
			KeyGenerator:  middleware.OAuthKeyGenerator,
			UseRedis:      useRedis,
			RedisAddr:     cfg.GetRedisAddr(),
			RedisPassword: cfg.GetRedisPassword(),
			RedisDB:       cfg.GetRedisDB(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OAuth rate limiter: %w", err)
		}
		oauthMiddleware = append(oauthMiddleware, oauthManager.Middleware())
	}

	linkHandler := api.NewLinkHandler(c.LinkService, c.CommitService)
	linkHandler.RegisterRoutes(router, oauthMiddleware...)

	hoursHandler := api.NewHoursHandler(c.CommitService, c.HourLogService)
	hoursHandler.RegisterRoutes(router)

	healthHandler := api.NewHealthHandler(c, version)
	healthHandler.RegisterRoutes(router)

	return router, nil
}
