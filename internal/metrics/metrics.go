// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealscout_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealscout_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DealSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealscout_deal_searches_total",
			Help: "Total number of deal searches by active strategy",
		},
		[]string{"strategy"},
	)

	DealSearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dealscout_deal_search_results",
			Help:    "Number of listings returned per deal search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	DealAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealscout_deal_analyses_total",
			Help: "Total number of single-property analyses by strategy and purchase model",
		},
		[]string{"strategy", "purchase_model"},
	)

	ListingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealscout_listing_cache_lookups_total",
			Help: "Published listing cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	PropertyReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealscout_property_reviews_total",
			Help: "Total number of review decisions",
		},
		[]string{"decision"},
	)

	PropertiesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dealscout_properties_ingested_total",
			Help: "Total number of listings received from the ingestion pipeline",
		},
	)
)
