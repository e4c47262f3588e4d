package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auvora-crm/config"
	"auvora-crm/database"
	socialapi "auvora-crm/internal/api/social"
	routes "auvora-crm/internal/app/http"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/mailer"
	"auvora-crm/internal/infra/metrics"
	"auvora-crm/internal/jobs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	logger.Init(config.LOG_LEVEL)
	defer logger.L().Sync() //nolint:errcheck

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Init(config.METRICS_PREFIX)
	database.InitDB()
	mailer.Default = mailer.FromConfig()

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS must be registered before the routes.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Tenant-ID", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r); err != nil {
		logger.L().Fatal("register routes", zap.Error(err))
	}

	runner := jobs.NewRunner(database.DB, socialapi.Publisher)
	if err := runner.Start(); err != nil {
		logger.L().Fatal("start jobs", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L().Info("🚀 listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L().Error("server shutdown", zap.Error(err))
	}
	runner.Stop()
}
