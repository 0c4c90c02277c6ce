package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artflight_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artflight_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthEvents counts authentication outcomes (login_ok, login_failed, refresh, blacklist, reset_requested, ...).
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artflight_auth_events_total",
		Help: "Total authentication events by outcome",
	}, []string{"event"})

	// MailDeliveries counts outbox deliveries by result.
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artflight_mail_deliveries_total",
		Help: "Total mail outbox deliveries by result",
	}, []string{"result"})

	// MediaUploadBytes records accepted upload sizes.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artflight_media_upload_bytes",
		Help:    "Size of accepted media uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
	})
)
