package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/models"
)

// stubFetcher answers from a table keyed by case number
type stubFetcher struct {
	mu       sync.Mutex
	outcomes map[string]models.LookupOutcome
	delay    time.Duration
	calls    atomic.Int64
	running  atomic.Int64
	peak     atomic.Int64
}

func (f *stubFetcher) FetchCase(_ context.Context, q models.CaseQuery) models.LookupOutcome {
	f.calls.Add(1)
	now := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		peak := f.peak.Load()
		if now <= peak || f.peak.CompareAndSwap(peak, now) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.outcomes[q.CaseNumber]; ok {
		return o
	}
	return models.NotFound()
}

var testCatalog = models.NewCaseCatalog([]string{"W.P.(C)", "LPA"}, []string{"2025", "2024"})

func newTestCaseService(t *testing.T, fetcher CaseFetcher, opts CaseServiceOptions) (*CaseService, *CacheService, *HistoryStore) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cache := NewCacheService(nil, time.Minute, logger)
	history := newTestHistory(t)
	if opts.MaxConcurrent == 0 {
		opts.MaxConcurrent = 2
	}
	if opts.MaxBatchSize == 0 {
		opts.MaxBatchSize = 10
	}
	return NewCaseService(fetcher, cache, history, opts, logger), cache, history
}

func foundOutcome(status string) models.LookupOutcome {
	return models.Found(models.CaseStatusRecord{
		StatusText:    status,
		Parties:       "A vs B",
		DocumentLinks: []string{"https://portal.example/docs/a.pdf"},
	})
}

func TestCaseService_LookupFoundIsCachedAndRecorded(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]models.LookupOutcome{"6768": foundOutcome("Pending")}}
	svc, _, history := newTestCaseService(t, fetcher, CaseServiceOptions{Catalog: testCatalog, CatalogLoaded: true})
	ctx := context.Background()
	q := models.CaseQuery{CaseType: "W.P.(C)", CaseNumber: "6768", CaseYear: "2025"}

	first, err := svc.Lookup(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFound, first.Status)
	assert.False(t, first.Cache)

	second, err := svc.Lookup(ctx, q)
	require.NoError(t, err)
	assert.True(t, second.Cache)
	assert.Equal(t, first.Record, second.Record)
	assert.Equal(t, int64(1), fetcher.calls.Load(), "cache hit skips the browser")

	list, err := history.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pending", list[0].StatusText)
}

func TestCaseService_NotFoundAndFailureAreNotKept(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]models.LookupOutcome{
		"500": models.Failure(models.ReasonTimeout),
	}}
	svc, _, history := newTestCaseService(t, fetcher, CaseServiceOptions{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := svc.Lookup(ctx, models.CaseQuery{CaseType: "LPA", CaseNumber: "1", CaseYear: "2024"})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeNotFound, resp.Status)
		assert.Equal(t, models.NotFoundMessage, resp.Message)

		resp, err = svc.Lookup(ctx, models.CaseQuery{CaseType: "LPA", CaseNumber: "500", CaseYear: "2024"})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeFailure, resp.Status)
		assert.Equal(t, models.ReasonTimeout, resp.Reason)
	}

	assert.Equal(t, int64(4), fetcher.calls.Load())
	count, err := history.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCaseService_RejectsBeforeLaunch(t *testing.T) {
	fetcher := &stubFetcher{}
	svc, _, _ := newTestCaseService(t, fetcher, CaseServiceOptions{Catalog: testCatalog, CatalogLoaded: true})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, models.CaseQuery{CaseType: "W.P.(C)", CaseNumber: " ", CaseYear: "2025"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Lookup(ctx, models.CaseQuery{CaseType: "CRL.A.", CaseNumber: "1", CaseYear: "2025"})
	assert.ErrorIs(t, err, ErrNotInCatalog)

	_, err = svc.Lookup(ctx, models.CaseQuery{CaseType: "LPA", CaseNumber: "1", CaseYear: "1999"})
	assert.ErrorIs(t, err, ErrNotInCatalog)

	assert.Zero(t, fetcher.calls.Load())
}

func TestCaseService_EmptyCatalogSkipsValidation(t *testing.T) {
	svc, _, _ := newTestCaseService(t, &stubFetcher{}, CaseServiceOptions{})

	assert.NoError(t, svc.Validate(models.CaseQuery{CaseType: "ANY", CaseNumber: "1", CaseYear: "1990"}))
	assert.False(t, svc.Catalog().Loaded)
	assert.Equal(t, "degraded", svc.Health()["status"])
}

func TestCaseService_NoSlot(t *testing.T) {
	fetcher := &stubFetcher{delay: 200 * time.Millisecond}
	svc, _, _ := newTestCaseService(t, fetcher, CaseServiceOptions{MaxConcurrent: 1})
	q := models.CaseQuery{CaseType: "LPA", CaseNumber: "1", CaseYear: "2024"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Lookup(context.Background(), q)
	}()
	require.Eventually(t, func() bool { return fetcher.running.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.Lookup(ctx, q)
	assert.ErrorIs(t, err, ErrNoSlot)

	<-done
}

func TestCaseService_BatchKeepsOrderAndCap(t *testing.T) {
	fetcher := &stubFetcher{
		delay: 20 * time.Millisecond,
		outcomes: map[string]models.LookupOutcome{
			"1": foundOutcome("Pending"),
			"3": models.Failure(models.ReasonElementNotFound),
		},
	}
	svc, _, _ := newTestCaseService(t, fetcher, CaseServiceOptions{MaxConcurrent: 2})

	queries := []models.CaseQuery{
		{CaseType: "LPA", CaseNumber: "1", CaseYear: "2024"},
		{CaseType: "LPA", CaseNumber: "2", CaseYear: "2024"},
		{CaseType: "LPA", CaseNumber: "3", CaseYear: "2024"},
		{CaseType: "LPA", CaseNumber: "4", CaseYear: "2024"},
		{CaseType: "LPA", CaseNumber: "5", CaseYear: "2024"},
	}
	resp, err := svc.Batch(context.Background(), queries)
	require.NoError(t, err)

	require.Len(t, resp.Results, 5)
	for i, r := range resp.Results {
		assert.Equal(t, queries[i], r.Query)
	}
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 1, resp.Found)
	assert.Equal(t, 3, resp.NotFound)
	assert.Equal(t, 1, resp.Failed)
	assert.LessOrEqual(t, fetcher.peak.Load(), int64(2))
}

func TestCaseService_BatchValidation(t *testing.T) {
	svc, _, _ := newTestCaseService(t, &stubFetcher{}, CaseServiceOptions{MaxBatchSize: 2, Catalog: testCatalog, CatalogLoaded: true})
	ctx := context.Background()

	_, err := svc.Batch(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	q := models.CaseQuery{CaseType: "LPA", CaseNumber: "1", CaseYear: "2024"}
	_, err = svc.Batch(ctx, []models.CaseQuery{q, q, q})
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	_, err = svc.Batch(ctx, []models.CaseQuery{q, {CaseType: "NOPE", CaseNumber: "1", CaseYear: "2024"}})
	assert.ErrorIs(t, err, ErrNotInCatalog)
}

type stubCatalogFetcher struct {
	catalog models.CaseCatalog
	err     error
}

func (f stubCatalogFetcher) FetchCatalog(context.Context) (models.CaseCatalog, error) {
	return f.catalog, f.err
}

func TestLoadCatalog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx := context.Background()
	boom := errors.New("portal down")

	catalog, loaded, err := LoadCatalog(ctx, stubCatalogFetcher{catalog: testCatalog}, config.LookupConfig{CatalogRequired: true}, logger)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, testCatalog, catalog)

	_, _, err = LoadCatalog(ctx, stubCatalogFetcher{err: boom}, config.LookupConfig{CatalogRequired: true}, logger)
	assert.ErrorIs(t, err, boom)

	_, _, err = LoadCatalog(ctx, stubCatalogFetcher{}, config.LookupConfig{CatalogRequired: true}, logger)
	assert.Error(t, err, "an empty catalog counts as a failure")

	catalog, loaded, err = LoadCatalog(ctx, stubCatalogFetcher{err: boom}, config.LookupConfig{CatalogRequired: false}, logger)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.True(t, catalog.Empty())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Case catalog unavailable, queries will not be validated", hook.LastEntry().Message)
}
