package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"careconnect/internal/db"
)

var (
	listingStateDesc = prometheus.NewDesc(
		"careconnect_listings",
		"Listing count by lifecycle state",
		[]string{"state"},
		nil,
	)

	moderationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careconnect_moderation_actions_total",
			Help: "Total moderation actions by entity, transition, and outcome",
		},
		[]string{"entity", "transition", "outcome"},
	)

	directorySearches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "careconnect_directory_searches_total",
			Help: "Total directory filter evaluations",
		},
	)

	bannerRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "careconnect_banner_requests_total",
			Help: "Total active-promotion banner requests",
		},
	)
)

// ListingStateCollector is a custom Prometheus collector that reads listing
// counts per lifecycle state from the database on each scrape.
type ListingStateCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ListingStateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- listingStateDesc
}

// Collect queries the database for listing counts and emits them as gauges.
func (c *ListingStateCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountListingsByState(context.Background())
	if err != nil {
		slog.Error("failed to collect listing state metrics", "error", err)
		return
	}
	for state, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			listingStateDesc,
			prometheus.GaugeValue,
			float64(count),
			state,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ListingStateCollector{db: database})
		prometheus.MustRegister(moderationActions, directorySearches, bannerRequests)
	})
}

// RecordModeration counts a moderation action and its outcome
// ("ok", "illegal_transition", "validation_failed", "error").
func RecordModeration(entity, transition, outcome string) {
	moderationActions.WithLabelValues(entity, transition, outcome).Inc()
}

// RecordDirectorySearch counts a directory filter evaluation.
func RecordDirectorySearch() {
	directorySearches.Inc()
}

// RecordBannerRequest counts an active-promotion banner request.
func RecordBannerRequest() {
	bannerRequests.Inc()
}
