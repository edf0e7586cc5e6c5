// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_bookings_submitted_total",
		Help: "Total number of bookings stored as PENDING",
	})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_booking_validation_failures_total",
		Help: "Rejected booking requests by validation code",
	}, []string{"code"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_booking_transitions_total",
		Help: "Owner status decisions by outcome",
	}, []string{"outcome"})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_booking_event_publish_failures_total",
		Help: "Booking events that could not be delivered to the broker",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
