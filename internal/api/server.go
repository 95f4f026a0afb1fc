package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nexconsult/courtcase-api/docs"
	"github.com/nexconsult/courtcase-api/internal/api/handlers"
	"github.com/nexconsult/courtcase-api/internal/api/middleware"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/services"
)

// Dependencies are the services the HTTP layer talks to
type Dependencies struct {
	Health  services.HealthReporter
	Cases   services.CaseServiceInterface
	Cache   services.CacheServiceInterface
	History services.HistoryServiceInterface
	Browser services.BrowserStats
}

// DependenciesFrom picks the HTTP dependencies out of a container
func DependenciesFrom(c *services.Container) Dependencies {
	return Dependencies{
		Health:  c,
		Cases:   c.CaseService,
		Cache:   c.CacheService,
		History: c.HistoryService,
		Browser: c.BrowserStats,
	}
}

// Server represents the HTTP server
type Server struct {
	Router *gin.Engine
	config *config.Config
	logger *logrus.Logger
	deps   Dependencies
}

// NewServer creates a new HTTP server. ctx bounds background work such as
// the rate limiter cleanup.
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, deps Dependencies) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	server.setupRouter(ctx)
	return server
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter(ctx context.Context) {
	s.Router = gin.New()

	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())

	healthHandler := handlers.NewHealthHandler(s.deps.Health, s.deps.Cases, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)

	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.config.Server.Environment != "production" {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	rateLimiter := middleware.NewRateLimiter(ctx, s.config.Security.RateLimit)

	v1 := s.Router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		v1.GET("/catalog", handlers.NewCatalogHandler(s.deps.Cases, s.logger).GetCatalog)

		caseHandler := handlers.NewCaseHandler(s.deps.Cases, s.logger)
		cases := v1.Group("/cases")
		{
			cases.POST("/lookup", caseHandler.Lookup)
			cases.POST("/batch", caseHandler.Batch)
		}

		historyHandler := handlers.NewHistoryHandler(s.deps.History, s.logger)
		queries := v1.Group("/queries")
		{
			queries.GET("", historyHandler.List)
			queries.GET("/:id", historyHandler.Get)
		}

		cacheHandler := handlers.NewCacheHandler(s.deps.Cache, s.logger)
		cache := v1.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("", cacheHandler.Clear)
		}

		v1.GET("/browser/stats", handlers.NewBrowserHandler(s.deps.Browser, s.deps.Cases, s.logger).GetStats)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not Found",
			"message":   "The requested resource was not found",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
		})
	})

	s.Router.HandleMethodNotAllowed = true
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":     "Method Not Allowed",
			"message":   "The requested method is not allowed for this resource",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		})
	})
}
