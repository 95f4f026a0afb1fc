package services

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtcase_lookups_total",
			Help: "Case lookups run against the portal, by outcome status and failure reason",
		},
		[]string{"status", "reason"},
	)

	lookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtcase_lookup_duration_seconds",
			Help:    "Duration of portal lookups",
			Buckets: []float64{1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90},
		},
		[]string{"status"},
	)

	activeLookups = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "courtcase_active_lookups",
		Help: "Lookups currently holding a browser slot",
	})

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtcase_cache_requests_total",
			Help: "Outcome cache reads by result",
		},
		[]string{"result"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtcase_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtcase_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	historyRecordsDesc = prometheus.NewDesc(
		"courtcase_history_records",
		"Successful lookups stored in the history database",
		nil,
		nil,
	)
)

// historyCollector reads the history size from the database on each scrape
type historyCollector struct {
	history *HistoryStore
	logger  *logrus.Logger
}

func (c *historyCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- historyRecordsDesc
}

func (c *historyCollector) Collect(ch chan<- prometheus.Metric) {
	count, err := c.history.Count(context.Background())
	if err != nil {
		c.logger.WithError(err).Error("Failed to collect history metrics")
		return
	}
	ch <- prometheus.MustNewConstMetric(historyRecordsDesc, prometheus.GaugeValue, float64(count))
}

var registerOnce sync.Once

// RegisterMetrics registers the service collectors with the default registry.
// Only the first call has an effect.
func RegisterMetrics(history *HistoryStore, logger *logrus.Logger) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			lookupsTotal,
			lookupDuration,
			activeLookups,
			cacheRequests,
			HTTPRequests,
			HTTPDuration,
		)
		if history != nil {
			prometheus.MustRegister(&historyCollector{history: history, logger: logger})
		}
	})
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
