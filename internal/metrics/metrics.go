package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the rental API.
type Metrics struct {
	BookingsCreated  prometheus.Counter
	BookingConflicts prometheus.Counter
	StatusChanges    *prometheus.CounterVec
	SearchRequests   prometheus.Counter
	EmailsSent       prometheus.Counter
	EmailFailures    prometheus.Counter
}

// New registers the rental metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on a caller-supplied registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_bookings_created_total",
			Help: "Total number of bookings created",
		}),

		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_booking_conflicts_total",
			Help: "Total number of bookings rejected because the car was taken",
		}),

		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_booking_status_changes_total",
			Help: "Total number of booking status transitions by target status",
		}, []string{"status"}),

		SearchRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_availability_searches_total",
			Help: "Total number of availability searches",
		}),

		EmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_notification_emails_sent_total",
			Help: "Total number of booking status emails sent",
		}),

		EmailFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_notification_email_failures_total",
			Help: "Total number of booking status emails that failed to send",
		}),
	}
}
