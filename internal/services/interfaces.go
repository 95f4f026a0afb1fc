package services

import (
	"context"

	"github.com/nexconsult/courtcase-api/internal/models"
)

// CaseServiceInterface defines the interface for case lookups
type CaseServiceInterface interface {
	// Lookup validates and runs a single case lookup
	Lookup(ctx context.Context, query models.CaseQuery) (models.LookupResponse, error)

	// Batch runs several lookups under the concurrency cap
	Batch(ctx context.Context, queries []models.CaseQuery) (models.BatchLookupResponse, error)

	// Catalog returns the case types and years loaded at startup
	Catalog() models.CatalogResponse

	// Stats returns lookup slot usage
	Stats() map[string]interface{}

	// Health returns service health status
	Health() map[string]interface{}
}

// CacheServiceInterface defines the interface for the outcome cache
type CacheServiceInterface interface {
	// Get retrieves a value from cache, or ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all cache entries and reports how many were dropped
	Clear(ctx context.Context) (int, error)

	// GetStats returns cache statistics
	GetStats(ctx context.Context) map[string]interface{}

	// Health returns cache service health status
	Health() map[string]interface{}
}

// HistoryServiceInterface defines the interface for the lookup history
type HistoryServiceInterface interface {
	// Record stores a found outcome
	Record(ctx context.Context, query models.CaseQuery, record models.CaseStatusRecord) (int64, error)

	// List returns the latest entries, newest first
	List(ctx context.Context, limit int) ([]models.QueryRecord, error)

	// Get returns one entry, or ErrQueryNotFound
	Get(ctx context.Context, id int64) (models.QueryRecord, error)

	// Health returns history database health status
	Health() map[string]interface{}
}

// CaseFetcher runs one lookup against the portal
type CaseFetcher interface {
	FetchCase(ctx context.Context, query models.CaseQuery) models.LookupOutcome
}

// CatalogFetcher reads the portal's case catalog
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (models.CaseCatalog, error)
}

// BrowserStats reports browser launcher counters
type BrowserStats interface {
	Stats() map[string]interface{}
}

// HealthReporter reports the health of a group of services
type HealthReporter interface {
	Health() map[string]interface{}
}
