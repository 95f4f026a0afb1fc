package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/api"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
	"github.com/nexconsult/courtcase-api/internal/services"
)

// @title Court Case Status API
// @version 1.0
// @description Looks up case status, parties, listing and order documents on the court portal

// @contact.name API Support
// @contact.url http://www.nexconsult.com/support
// @contact.email support@nexconsult.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level, cfg.Log.Format)
	appLogger.Info("Starting Court Case API Server...")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Loads the case catalog through a real browser session
	container, err := services.NewContainer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize services: %v", err)
	}

	server := api.NewServer(ctx, cfg, appLogger, api.DependenciesFrom(container))

	httpServer := newHTTPServer(cfg.Server, server.Router)

	go func() {
		appLogger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
			"portal":      cfg.Portal.BaseURL,
		}).Info("Server starting...")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	if err := container.Close(); err != nil {
		appLogger.WithError(err).Warn("Failed to close services cleanly")
	}

	appLogger.Info("Server exited")
}

// newHTTPServer applies the configured port and timeouts (in seconds)
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
}
