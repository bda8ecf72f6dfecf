package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the webhook fulfillment pipeline
var (
	WebhooksReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopify_webhooks_received_total",
			Help: "Total number of Shopify order webhooks received",
		},
	)

	WebhooksUnauthorizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopify_webhooks_unauthorized_total",
			Help: "Total number of webhooks rejected for an invalid HMAC signature",
		},
	)

	WebhooksMalformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopify_webhooks_malformed_total",
			Help: "Total number of webhooks with an unparsable body",
		},
	)

	ItemsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_items_submitted_total",
			Help: "Total number of line items submitted to Printful",
		},
	)

	ItemsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_items_failed_total",
			Help: "Total number of line items that failed to submit, by reason",
		},
		[]string{"reason"},
	)

	ItemsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_items_skipped_total",
			Help: "Total number of line items skipped, by reason",
		},
		[]string{"reason"},
	)

	MappingCacheRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "variant_mapping_cache_refresh_total",
			Help: "Total number of SKU-join mapping cache refreshes, by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fulfillment_submission_duration_seconds",
			Help:    "Duration of one Printful order submission",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(WebhooksReceivedTotal)
	prometheus.MustRegister(WebhooksUnauthorizedTotal)
	prometheus.MustRegister(WebhooksMalformedTotal)
	prometheus.MustRegister(ItemsSubmittedTotal)
	prometheus.MustRegister(ItemsFailedTotal)
	prometheus.MustRegister(ItemsSkippedTotal)
	prometheus.MustRegister(MappingCacheRefreshTotal)
	prometheus.MustRegister(SubmissionDuration)
}
