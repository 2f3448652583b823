// Package metrics exposes Prometheus instrumentation for URL parsing, key
// extraction, and the packed cache, plus an HTTP server for scraping.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jongio/parseurl/urlpack"
	"github.com/jongio/parseurl/urlparse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// Result label values.
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultUnknown   = "unknown_key"
	ResultCorrupt   = "corrupt"
	ResultAbsent    = "absent"
	ResultError     = "error"
	ResultHit       = "hit"
	ResultMiss      = "miss"
)

var (
	parseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parseurl_parse_duration_seconds",
			Help:    "Duration of URL parse calls in seconds",
			Buckets: []float64{.000001, .0000025, .000005, .00001, .000025, .00005, .0001, .00025, .001},
		},
		[]string{"op"},
	)

	parseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parseurl_parse_total",
			Help: "Total number of URL parse calls by operation and result",
		},
		[]string{"op", "result"},
	)

	packedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parseurl_packed_size_bytes",
			Help:    "Size of encoded packed URLs in bytes, directory included",
			Buckets: prometheus.ExponentialBuckets(64, 2, 8),
		},
	)

	extractTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parseurl_extract_total",
			Help: "Total number of key extractions by key and result",
		},
		[]string{"key", "result"},
	)

	cacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parseurl_cache_total",
			Help: "Packed cache lookups by result",
		},
		[]string{"result"},
	)

	cacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parseurl_cache_breaker_state",
			Help: "Cache circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parseurl_mcp_tool_calls_total",
			Help: "MCP tool invocations by tool and result",
		},
		[]string{"tool", "result"},
	)
)

// Classify maps an error from the parsing packages, or the *pgconn.PgError
// they are reported as, to a result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, urlparse.ErrMalformedURL):
		return ResultMalformed
	case errors.Is(err, urlparse.ErrUnknownKey):
		return ResultUnknown
	case errors.Is(err, urlpack.ErrCorrupt):
		return ResultCorrupt
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02":
			return ResultMalformed
		case "0A000":
			return ResultUnknown
		case "XX001":
			return ResultCorrupt
		}
	}
	return ResultError
}

// RecordParse records one parse-like call. op names the entry point, for
// example "url_in" or "parse_url_record".
func RecordParse(op string, elapsed time.Duration, err error) {
	parseDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	parseTotal.WithLabelValues(op, Classify(err)).Inc()
}

// RecordPackedSize records the serialized size of an encoded URL.
func RecordPackedSize(p *urlpack.Packed) {
	packedSize.Observe(float64(urlpack.DirectorySize + p.Len()))
}

// RecordExtract records a key extraction. found is ignored when err is set.
func RecordExtract(key string, found bool, err error) {
	result := Classify(err)
	if err == nil && !found {
		result = ResultAbsent
	}
	if errors.Is(err, urlparse.ErrUnknownKey) {
		// Bound label cardinality to the known key set.
		key = "invalid"
	}
	extractTotal.WithLabelValues(key, result).Inc()
}

// RecordCache records a cache lookup outcome: ResultHit, ResultMiss or
// ResultError.
func RecordCache(result string) {
	cacheTotal.WithLabelValues(result).Inc()
}

// RecordBreakerState records the cache circuit breaker state.
func RecordBreakerState(state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateClosed:
		v = 0
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	cacheBreakerState.Set(v)
}

// RecordToolCall records an MCP tool invocation.
func RecordToolCall(tool string, err error) {
	toolCalls.WithLabelValues(tool, Classify(err)).Inc()
}

// Serve starts a Prometheus metrics HTTP server and blocks.
func Serve(port int) error {
	return CreateServer(port).ListenAndServe()
}

// CreateServer creates a configured HTTP server exposing /metrics and /health.
func CreateServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
