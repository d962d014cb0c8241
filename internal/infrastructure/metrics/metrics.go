package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio_tracker"

var (
	RequestsHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_requests",
			Help:      "Time taken by calls to external services",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"client", "method", "error"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	PriceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fallbacks_total",
			Help:      "Price oracle failures served from the stale copy or the default prices",
		},
		[]string{"kind"},
	)

	TokenListSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "token_list_size",
			Help:      "Number of tokens in the current metadata list",
		},
	)
)

func CollectRequestsMetric(client, method string, err error, start time.Time) {
	RequestsHistogram.
		WithLabelValues(client, method, errLabelValue(err)).
		Observe(time.Since(start).Seconds())
}

// CollectCacheLookup records a hit or a miss of the named cache.
func CollectCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

func CollectPriceFallback(kind string) {
	PriceFallbacks.WithLabelValues(kind).Inc()
}

func SetTokenListSize(n int) {
	TokenListSize.Set(float64(n))
}

func errLabelValue(err error) string {
	if err != nil {
		return "true"
	}
	return "false"
}
