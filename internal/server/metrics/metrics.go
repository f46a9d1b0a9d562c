// Package metrics collects and exposes Prometheus metrics for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the server's Prometheus metrics.
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	signups         prometheus.Counter
	logins          prometheus.Counter
	listingsCreated prometheus.Counter
	photoPresigns   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leazzy_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leazzy_request_latency_seconds",
			Help:    "Request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leazzy_signups_total",
			Help: "Successful account registrations.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leazzy_logins_total",
			Help: "Successful logins.",
		}),
		listingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leazzy_listings_created_total",
			Help: "Property listings accepted.",
		}),
		photoPresigns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leazzy_photo_presigns_total",
			Help: "Presigned photo upload URLs issued.",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.signups,
		c.logins,
		c.listingsCreated,
		c.photoPresigns,
	)

	return c
}

// RecordHTTPStatus counts one response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency observes one request's handling time.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSignup counts one successful registration.
func (c *Collector) RecordSignup() { c.signups.Inc() }

// RecordLogin counts one successful login.
func (c *Collector) RecordLogin() { c.logins.Inc() }

// RecordListingCreated counts one accepted listing.
func (c *Collector) RecordListingCreated() { c.listingsCreated.Inc() }

// RecordPhotoPresign counts one issued upload URL.
func (c *Collector) RecordPhotoPresign() { c.photoPresigns.Inc() }

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
