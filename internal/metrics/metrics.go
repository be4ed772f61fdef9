package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ApprovalTransitionsTotal counts approval workflow transitions by
	// entity kind and resulting status
	ApprovalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_approval_transitions_total",
		Help: "Total approval workflow transitions",
	}, []string{"entity", "status"})

	// PayoutsTotal counts payout resolutions by final status
	PayoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_payouts_total",
		Help: "Total payouts by final status",
	}, []string{"status"})

	// PayoutAmount observes payout amounts in the payout currency
	PayoutAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_payout_amount",
		Help:    "Distribution of payout amounts",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// OrdersTotal counts completed orders
	OrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_orders_total",
		Help: "Total orders created after verified payment",
	})

	// QueueJobsTotal counts background jobs by type and outcome
	QueueJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_queue_jobs_total",
		Help: "Total background jobs processed",
	}, []string{"type", "outcome"})
)
