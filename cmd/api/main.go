package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hotelpms/internal/config"
	"hotelpms/internal/database"
	"hotelpms/internal/database/migrations"
	"hotelpms/internal/pkg/cache"
	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := migrations.Run(db, zl); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	configCache := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, zl)

	srv := server.New(cfg, db, configCache, zl)
	defer srv.Hub.Close()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zl.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
		return
	}
	zl.Info("server stopped gracefully")
}
