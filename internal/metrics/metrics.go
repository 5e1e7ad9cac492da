package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inkbook",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inkbook",
			Name:      "booking_updated_total",
			Help:      "Count of bookings edited in place.",
		},
	)

	bookingDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inkbook",
			Name:      "booking_deleted_total",
			Help:      "Count of bookings deleted.",
		},
	)

	storeImport = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inkbook",
			Name:      "store_import_total",
			Help:      "Count of snapshot imports by result.",
		},
		[]string{"result"},
	)

	storeExport = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inkbook",
			Name:      "store_export_total",
			Help:      "Count of snapshot exports.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingUpdated, bookingDeleted, storeImport, storeExport)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingUpdated() {
	bookingUpdated.Inc()
}

func IncBookingDeleted() {
	bookingDeleted.Inc()
}

func IncStoreImport(result string) {
	storeImport.WithLabelValues(result).Inc()
}

func IncStoreExport() {
	storeExport.Inc()
}
