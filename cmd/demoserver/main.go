// Package main is the entry point for the RoadGuard demo backend. It
// serves the REST API the client core talks to: auth, damage detection,
// complaints, the official dashboard, and team work orders.
//
// By default all state lives in memory, seeded from the demo dataset so
// the server and the client's offline fixtures describe the same world.
// Set DATABASE_URL to persist complaints in Postgres, and REDIS_URL to
// cache dashboard aggregates in Redis.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/config"
	"github.com/roadguard/roadguard-go/internal/demosrv/handlers"
	"github.com/roadguard/roadguard-go/internal/demosrv/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting RoadGuard demo backend",
		"port", cfg.Port,
		"env", cfg.Environment,
		"postgres", cfg.DatabaseURL != "",
		"redis", cfg.RedisURL != "",
	)

	st, cleanup, err := buildStore(cfg, sugar)
	if err != nil {
		sugar.Fatalf("Failed to initialize store: %v", err)
	}
	defer cleanup()

	var cache *store.Cache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cache, err = store.NewCache(ctx, cfg.RedisURL, time.Minute, sugar)
		cancel()
		if err != nil {
			sugar.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.NewRouter(cfg, st, cache, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}

func buildStore(cfg *config.Config, sugar *zap.SugaredLogger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		mem, err := store.NewMemory()
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}

	pool, err := store.NewPool(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pg, err := store.NewPostgres(ctx, pool, sugar)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}
