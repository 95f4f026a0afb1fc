package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/scraper"
)

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	launcher    *browser.ChromeLauncher
	history     *HistoryStore
	stopCleanup context.CancelFunc

	CaseService    CaseServiceInterface
	CacheService   CacheServiceInterface
	HistoryService HistoryServiceInterface
	BrowserStats   BrowserStats
}

// NewContainer creates a new service container. It reads the case catalog
// from the portal once; without it startup fails unless CATALOG_REQUIRED is
// false.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	container.initRedis(ctx)

	if err := container.initServices(ctx); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initRedis connects to Redis, leaving the client nil when it is disabled or
// unreachable
func (c *Container) initRedis(ctx context.Context) {
	if !c.config.Redis.Enabled {
		c.logger.Info("Redis disabled, using memory cache")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, c.config.Redis.DialTimeout+time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis connection failed, running with memory cache")
		client.Close()
		return
	}

	c.logger.Info("Redis connection established")
	c.redisClient = client
}

// initServices initializes all services
func (c *Container) initServices(ctx context.Context) error {
	cache := NewCacheService(c.redisClient, c.config.Lookup.CacheTTL, c.logger)
	cleanupCtx, stop := context.WithCancel(context.Background())
	c.stopCleanup = stop
	cache.StartCleanupRoutine(cleanupCtx, time.Minute)
	c.CacheService = cache

	history, err := OpenHistoryStore(ctx, c.config.History.DSN, c.logger)
	if err != nil {
		return err
	}
	c.history = history
	c.HistoryService = history
	RegisterMetrics(history, c.logger)

	c.launcher = browser.NewChromeLauncher(c.config.Browser, c.config.Lookup.ElementTimeout, c.logger)
	c.BrowserStats = c.launcher

	lookup, err := scraper.NewLookup(c.launcher, c.config.Portal, c.config.Lookup, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lookup: %w", err)
	}

	catalog, loaded, err := LoadCatalog(ctx, scraper.NewCatalogFetcher(c.launcher, c.config.Portal, c.logger), c.config.Lookup, c.logger)
	if err != nil {
		return err
	}

	c.CaseService = NewCaseService(lookup, cache, history, CaseServiceOptions{
		MaxConcurrent: c.config.Lookup.MaxConcurrentLookups,
		MaxBatchSize:  c.config.Lookup.MaxBatchSize,
		Catalog:       catalog,
		CatalogLoaded: loaded,
	}, c.logger)

	return nil
}

// LoadCatalog fetches the case catalog once. When the catalog is optional a
// failure yields an empty catalog and loaded=false.
func LoadCatalog(ctx context.Context, fetcher CatalogFetcher, settings config.LookupConfig, logger *logrus.Logger) (models.CaseCatalog, bool, error) {
	fetchCtx := ctx
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	catalog, err := fetcher.FetchCatalog(fetchCtx)
	if err == nil && catalog.Empty() {
		err = errors.New("portal offered no case types or years")
	}
	if err != nil {
		if settings.CatalogRequired {
			return models.CaseCatalog{}, false, fmt.Errorf("failed to load case catalog: %w", err)
		}
		logger.WithError(err).Warn("Case catalog unavailable, queries will not be validated")
		return models.CaseCatalog{}, false, nil
	}

	return catalog, true, nil
}

// Close closes all service connections
func (c *Container) Close() error {
	var errs []error

	if c.stopCleanup != nil {
		c.stopCleanup()
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.history != nil {
		if err := c.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history database: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Health checks the health of all services
func (c *Container) Health() map[string]interface{} {
	health := make(map[string]interface{})

	if c.CacheService != nil {
		health["cache"] = c.CacheService.Health()
	}
	if c.HistoryService != nil {
		health["history"] = c.HistoryService.Health()
	}
	if c.CaseService != nil {
		health["lookup"] = c.CaseService.Health()
	}
	if c.launcher != nil {
		health["browser"] = c.launcher.Stats()
	}

	return health
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}
