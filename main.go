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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	intconfig "projectdesk/internal/config"
	intdb "projectdesk/internal/db"
	router "projectdesk/internal/http"
	"projectdesk/internal/http/handlers"
	"projectdesk/internal/repositories"
	"projectdesk/internal/utils"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.InitLogger(env.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if missing, err := intdb.MissingTables(ctx, db, intdb.RequiredTables); err != nil {
		logger.Warn("schema check failed", zap.Error(err))
	} else if len(missing) > 0 {
		logger.Warn("schema is missing tables", zap.Strings("tables", missing))
	}

	rdb, err := intconfig.ConnectRedis(ctx, env)
	if err != nil {
		logger.Warn("redis unavailable, login throttling disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	hd := &handlers.Handler{
		DB:        db,
		Redis:     rdb,
		Env:       env,
		Projects:  repositories.NewProjectRepository(db),
		Tasks:     repositories.NewTaskRepository(db),
		Users:     repositories.NewUserRepository(db),
		Requests:  repositories.NewRequestRepository(db),
		Providers: repositories.NewProviderRepository(db),
		Inventory: repositories.NewInventoryRepository(db),
	}
	r := router.NewRouter(hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
