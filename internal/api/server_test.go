package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type portalStub struct {
	calls atomic.Int64
}

func (p *portalStub) FetchCase(_ context.Context, q models.CaseQuery) models.LookupOutcome {
	p.calls.Add(1)
	if q.CaseNumber == "404" {
		return models.NotFound()
	}
	return models.Found(models.CaseStatusRecord{
		StatusText:          "Pending",
		Parties:             "A vs B",
		ListingDateAndCourt: "12-Jan-2025, Court 5",
		DocumentLinks:       []string{"https://portal.example/docs/a.pdf"},
	})
}

type launcherStats map[string]interface{}

func (s launcherStats) Stats() map[string]interface{} { return s }

type serviceHealth map[string]interface{}

func (s serviceHealth) Health() map[string]interface{} { return s }

func newTestServer(t *testing.T, rpm, burst int) (*Server, *portalStub) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	history, err := services.OpenHistoryStore(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })
	services.RegisterMetrics(history, logger)

	cache := services.NewCacheService(nil, time.Hour, logger)
	portal := &portalStub{}
	cases := services.NewCaseService(portal, cache, history, services.CaseServiceOptions{
		MaxConcurrent: 2,
		MaxBatchSize:  5,
		Catalog:       models.NewCaseCatalog([]string{"W.P.(C)", "LPA"}, []string{"2025", "2024"}),
		CatalogLoaded: true,
	}, logger)

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Security: config.SecurityConfig{
			RateLimit: config.RateLimitConfig{RequestsPerMinute: rpm, BurstSize: burst},
			CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
	}

	server := NewServer(ctx, cfg, logger, Dependencies{
		Health:  serviceHealth{"history": history.Health()},
		Cases:   cases,
		Cache:   cache,
		History: history,
		Browser: launcherStats{"opened_sessions": 0},
	})
	return server, portal
}

func request(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestServer_LookupCachesAndRecords(t *testing.T) {
	server, portal := newTestServer(t, 600, 100)
	query := models.CaseQuery{CaseType: "W.P.(C)", CaseNumber: "6768", CaseYear: "2025"}

	w := request(server, http.MethodPost, "/api/v1/cases/lookup", query)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(server, http.MethodPost, "/api/v1/cases/lookup", query)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.EqualValues(t, 1, portal.calls.Load())

	var resp models.LookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Record)
	assert.Equal(t, "Pending", resp.Record.StatusText)
	assert.Equal(t, []string{"https://portal.example/docs/a.pdf"}, resp.Record.DocumentLinks)

	w = request(server, http.MethodGet, "/api/v1/queries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.QueryListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "6768", list.Queries[0].CaseNumber)
}

func TestServer_LookupValidation(t *testing.T) {
	server, portal := newTestServer(t, 600, 100)

	w := request(server, http.MethodPost, "/api/v1/cases/lookup", models.CaseQuery{CaseType: "XYZ", CaseNumber: "1", CaseYear: "2025"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_IN_CATALOG")

	w = request(server, http.MethodPost, "/api/v1/cases/lookup", models.CaseQuery{CaseType: "LPA", CaseNumber: "404", CaseYear: "2024"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), models.NotFoundMessage)

	assert.EqualValues(t, 1, portal.calls.Load())
}

func TestServer_Batch(t *testing.T) {
	server, _ := newTestServer(t, 600, 100)

	w := request(server, http.MethodPost, "/api/v1/cases/batch", models.BatchLookupRequest{Queries: []models.CaseQuery{
		{CaseType: "LPA", CaseNumber: "404", CaseYear: "2024"},
		{CaseType: "W.P.(C)", CaseNumber: "1", CaseYear: "2025"},
	}})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BatchLookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Found)
	assert.Equal(t, 1, resp.NotFound)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, models.OutcomeNotFound, resp.Results[0].Status)
	assert.Equal(t, models.OutcomeFound, resp.Results[1].Status)
}

func TestServer_Routes(t *testing.T) {
	server, _ := newTestServer(t, 600, 100)

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/catalog", http.StatusOK},
		{http.MethodGet, "/api/v1/cache/stats", http.StatusOK},
		{http.MethodDelete, "/api/v1/cache", http.StatusOK},
		{http.MethodGet, "/api/v1/browser/stats", http.StatusOK},
		{http.MethodGet, "/api/v1/queries/99", http.StatusNotFound},
		{http.MethodGet, "/api/v1/nothing", http.StatusNotFound},
		{http.MethodGet, "/api/v1/cases/lookup", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := request(server, tt.method, tt.path, nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestServer_MetricsExposeLookups(t *testing.T) {
	server, _ := newTestServer(t, 600, 100)

	w := request(server, http.MethodPost, "/api/v1/cases/lookup", models.CaseQuery{CaseType: "LPA", CaseNumber: "7", CaseYear: "2024"})
	require.Equal(t, http.StatusOK, w.Code)

	w = request(server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courtcase_lookups_total")
	assert.Contains(t, w.Body.String(), "courtcase_http_requests_total")
}

func TestServer_RateLimitOnlyOnAPI(t *testing.T) {
	server, _ := newTestServer(t, 1, 1)

	assert.Equal(t, http.StatusOK, request(server, http.MethodGet, "/api/v1/catalog", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(server, http.MethodGet, "/api/v1/catalog", nil).Code)

	assert.Equal(t, http.StatusOK, request(server, http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, request(server, http.MethodGet, "/health/live", nil).Code)
}
