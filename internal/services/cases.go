package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/nexconsult/courtcase-api/internal/models"
)

var (
	// ErrInvalidQuery means a query field is blank
	ErrInvalidQuery = errors.New("invalid case query")
	// ErrNotInCatalog means the case type or year is not offered by the portal
	ErrNotInCatalog = errors.New("case type or year not offered by the portal")
	// ErrNoSlot means no browser slot became free before the caller gave up
	ErrNoSlot = errors.New("no lookup slot available")
	// ErrBatchTooLarge means a batch exceeds the configured size
	ErrBatchTooLarge = errors.New("batch too large")
)

// CaseService validates queries and runs lookups through the cache, the
// concurrency cap and the history store
type CaseService struct {
	fetcher CaseFetcher
	cache   CacheServiceInterface
	history HistoryServiceInterface
	catalog models.CaseCatalog
	loaded  bool
	logger  *logrus.Logger

	slots    *semaphore.Weighted
	maxSlots int
	maxBatch int
	inFlight atomic.Int64
	total    atomic.Int64
}

// CaseServiceOptions configures a CaseService
type CaseServiceOptions struct {
	MaxConcurrent int
	MaxBatchSize  int
	Catalog       models.CaseCatalog
	CatalogLoaded bool
}

// NewCaseService creates a case service. cache and history may be nil.
func NewCaseService(fetcher CaseFetcher, cache CacheServiceInterface, history HistoryServiceInterface, opts CaseServiceOptions, logger *logrus.Logger) *CaseService {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxBatchSize < 1 {
		opts.MaxBatchSize = 1
	}
	return &CaseService{
		fetcher:  fetcher,
		cache:    cache,
		history:  history,
		catalog:  opts.Catalog,
		loaded:   opts.CatalogLoaded,
		logger:   logger,
		slots:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		maxSlots: opts.MaxConcurrent,
		maxBatch: opts.MaxBatchSize,
	}
}

// Validate checks query against the loaded catalog. An empty catalog accepts
// any non-blank query.
func (s *CaseService) Validate(query models.CaseQuery) error {
	if query.Blank() {
		return fmt.Errorf("%w: case_type, case_number and case_year are required", ErrInvalidQuery)
	}
	if s.catalog.Empty() {
		return nil
	}
	if !s.catalog.HasCaseType(strings.TrimSpace(query.CaseType)) {
		return fmt.Errorf("%w: unknown case type %q", ErrNotInCatalog, query.CaseType)
	}
	if !s.catalog.HasCaseYear(strings.TrimSpace(query.CaseYear)) {
		return fmt.Errorf("%w: unknown case year %q", ErrNotInCatalog, query.CaseYear)
	}
	return nil
}

// Lookup returns the outcome for query, from cache when possible
func (s *CaseService) Lookup(ctx context.Context, query models.CaseQuery) (models.LookupResponse, error) {
	if err := s.Validate(query); err != nil {
		return models.LookupResponse{}, err
	}

	start := time.Now()
	if resp, ok := s.fromCache(ctx, query); ok {
		resp.DurationMs = time.Since(start).Milliseconds()
		return resp, nil
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return models.LookupResponse{}, fmt.Errorf("%w: %v", ErrNoSlot, err)
	}
	outcome := s.fetchHoldingSlot(ctx, query)

	elapsed := time.Since(start)
	s.total.Add(1)
	lookupsTotal.WithLabelValues(string(outcome.Status), string(outcome.Reason)).Inc()
	lookupDuration.WithLabelValues(string(outcome.Status)).Observe(elapsed.Seconds())

	if outcome.IsFound() {
		s.remember(ctx, query, outcome)
	}

	resp := models.NewLookupResponse(query, outcome)
	resp.DurationMs = elapsed.Milliseconds()
	return resp, nil
}

// fetchHoldingSlot runs the fetcher and gives the acquired slot back
func (s *CaseService) fetchHoldingSlot(ctx context.Context, query models.CaseQuery) models.LookupOutcome {
	s.inFlight.Add(1)
	activeLookups.Inc()
	defer func() {
		activeLookups.Dec()
		s.inFlight.Add(-1)
		s.slots.Release(1)
	}()

	return s.fetcher.FetchCase(ctx, query)
}

// Batch runs queries concurrently, bounded by the lookup slots. Results keep
// the request order.
func (s *CaseService) Batch(ctx context.Context, queries []models.CaseQuery) (models.BatchLookupResponse, error) {
	if len(queries) == 0 {
		return models.BatchLookupResponse{}, fmt.Errorf("%w: at least one query is required", ErrInvalidQuery)
	}
	if len(queries) > s.maxBatch {
		return models.BatchLookupResponse{}, fmt.Errorf("%w: %d queries, maximum is %d", ErrBatchTooLarge, len(queries), s.maxBatch)
	}
	for i, q := range queries {
		if err := s.Validate(q); err != nil {
			return models.BatchLookupResponse{}, fmt.Errorf("query %d: %w", i, err)
		}
	}

	start := time.Now()
	results := make([]models.LookupResponse, len(queries))

	var g errgroup.Group
	g.SetLimit(s.maxSlots)
	for i, q := range queries {
		g.Go(func() error {
			resp, err := s.Lookup(ctx, q)
			if err != nil {
				s.logger.WithError(err).WithField("case", q.Key()).Warn("Batch lookup could not run")
				resp = models.NewLookupResponse(q, models.Failure(models.ReasonSessionUnavailable))
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.BatchLookupResponse{}, err
	}

	out := models.BatchLookupResponse{
		Results:    results,
		Total:      len(results),
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now(),
	}
	for _, r := range results {
		switch r.Status {
		case models.OutcomeFound:
			out.Found++
		case models.OutcomeNotFound:
			out.NotFound++
		default:
			out.Failed++
		}
	}
	return out, nil
}

// Catalog returns the case catalog loaded at startup
func (s *CaseService) Catalog() models.CatalogResponse {
	return models.CatalogResponse{CaseCatalog: s.catalog, Loaded: s.loaded}
}

// Stats returns lookup slot usage
func (s *CaseService) Stats() map[string]interface{} {
	return map[string]interface{}{
		"max_concurrent_lookups": s.maxSlots,
		"lookups_in_flight":      s.inFlight.Load(),
		"lookups_total":          s.total.Load(),
		"max_batch_size":         s.maxBatch,
	}
}

// Health returns service health status
func (s *CaseService) Health() map[string]interface{} {
	status := "healthy"
	if !s.loaded {
		status = "degraded"
	}
	return map[string]interface{}{
		"status":         status,
		"catalog_loaded": s.loaded,
		"case_types":     len(s.catalog.CaseTypes),
		"case_years":     len(s.catalog.CaseYears),
	}
}

func (s *CaseService) fromCache(ctx context.Context, query models.CaseQuery) (models.LookupResponse, bool) {
	if s.cache == nil {
		return models.LookupResponse{}, false
	}

	raw, err := s.cache.Get(ctx, query.Key())
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithError(err).Warn("Cache read failed")
		}
		return models.LookupResponse{}, false
	}

	var outcome models.LookupOutcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil || !outcome.IsFound() {
		s.logger.WithField("case", query.Key()).Warn("Discarding unreadable cache entry")
		_ = s.cache.Delete(ctx, query.Key())
		return models.LookupResponse{}, false
	}

	resp := models.NewLookupResponse(query, outcome)
	resp.Cache = true
	return resp, true
}

// remember caches and records a found outcome. Failures are logged only.
func (s *CaseService) remember(ctx context.Context, query models.CaseQuery, outcome models.LookupOutcome) {
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil {
		if raw, err := json.Marshal(outcome); err != nil {
			s.logger.WithError(err).Warn("Failed to encode outcome for cache")
		} else if err := s.cache.Set(ctx, query.Key(), string(raw)); err != nil {
			s.logger.WithError(err).Warn("Failed to cache outcome")
		}
	}

	if s.history != nil {
		if _, err := s.history.Record(ctx, query, *outcome.Record); err != nil {
			s.logger.WithError(err).WithField("case", query.Key()).Error("Failed to record lookup history")
		}
	}
}
