package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_snapshot_refresh_total",
			Help: "Snapshot refreshes by outcome (ok, error, stale_discarded)",
		},
		[]string{"outcome"},
	)

	cacheLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_cache_lookup_total",
			Help: "Cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	viewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_view_requests_total",
			Help: "Composed view requests by mode",
		},
		[]string{"mode"},
	)

	malformedRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "calendar_malformed_rows_total",
			Help: "Rows with unparseable timestamps kept via fallback",
		},
	)
)

func RecordRefresh(outcome string) {
	refreshTotal.WithLabelValues(outcome).Inc()
}

func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupTotal.WithLabelValues(kind, result).Inc()
}

func RecordViewRequest(mode string) {
	viewRequestsTotal.WithLabelValues(mode).Inc()
}

func RecordMalformedRow() {
	malformedRowsTotal.Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
