package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "bookings_created_total",
			Help:      "Bookings admitted.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "booking_conflicts_total",
			Help:      "Booking requests rejected due to an occupied slot.",
		},
	)

	slotRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "slot_requests_total",
			Help:      "Slot grid lookups.",
		},
	)

	notificationsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "notifications_sent_total",
			Help:      "Owner notifications delivered.",
		},
	)

	notificationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "notifications_failed_total",
			Help:      "Owner notifications abandoned after retries.",
		},
	)

	notificationsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fadebook",
			Name:      "notifications_dropped_total",
			Help:      "Owner notifications dropped because the queue was full.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingConflicts,
			slotRequests,
			notificationsSent,
			notificationsFailed,
			notificationsDropped,
		)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

func IncBookingCreated() { bookingsCreated.Inc() }

func IncBookingConflict() { bookingConflicts.Inc() }

func IncSlotRequest() { slotRequests.Inc() }

func IncNotificationSent() { notificationsSent.Inc() }

func IncNotificationFailed() { notificationsFailed.Inc() }

func IncNotificationDropped() { notificationsDropped.Inc() }
