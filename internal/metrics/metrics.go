package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyweather_upstream_requests_total",
			Help: "Outbound provider HTTP requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyweather_upstream_latency_seconds",
			Help:    "Outbound provider HTTP latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// WeatherTiers counts fallback tier transitions; outcome is succeeded, failed or skipped.
	WeatherTiers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyweather_weather_tiers_total",
			Help: "Weather provider tier attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	MockSnapshots = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyweather_mock_snapshots_total",
			Help: "Snapshots synthesized because every weather provider failed",
		},
	)

	LocationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyweather_location_lookups_total",
			Help: "Reverse geocode and search attempts by operation, provider and outcome",
		},
		[]string{"operation", "provider", "outcome"},
	)

	GeocodeCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyweather_geocode_cache_total",
			Help: "Reverse geocode cache lookups by result",
		},
		[]string{"result"},
	)
)
