package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iliyamo/studyspot-booking/internal/store"
)

const (
	Namespace = "studyspot"

	NameBookingsCreated   = "bookings_created_total"
	NameBookingsRejected  = "bookings_rejected_total"
	NameBookingsCancelled = "bookings_cancelled_total"
	NameStoreFailures     = "store_failures_total"

	LabelReason = "reason"
	LabelKey    = "key"
	LabelKind   = "kind"

	ReasonValidation = "validation"
	ReasonDuplicate  = "duplicate"
)

var BookingsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameBookingsCreated,
		Help:      "Bookings confirmed",
		Namespace: Namespace,
	},
)

var BookingsRejected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameBookingsRejected,
		Help:      "Booking attempts rejected",
		Namespace: Namespace,
	},
	[]string{LabelReason},
)

var BookingsCancelled = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameBookingsCancelled,
		Help:      "Bookings cancelled",
		Namespace: Namespace,
	},
)

var StoreFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameStoreFailures,
		Help:      "Store failures recovered from, by key and kind",
		Namespace: Namespace,
	},
	[]string{LabelKey, LabelKind},
)

// ObserveStoreError counts an error reported by a store. It is meant to be
// passed to store.WithErrorHandler.
func ObserveStoreError(err error) {
	var serr *store.Error
	if !errors.As(err, &serr) {
		return
	}
	kind := "storage"
	if errors.Is(serr, store.ErrParse) {
		kind = "parse"
	}
	StoreFailures.WithLabelValues(serr.Key, kind).Inc()
}
