// Package metrics exposes Prometheus counters for the booking engine.
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coworking",
			Name:      "bookings_created_total",
			Help:      "Count of workspace bookings created, by room.",
		},
		[]string{"room"},
	)

	bookingsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coworking",
			Name:      "bookings_cancelled_total",
			Help:      "Count of workspace bookings cancelled, by room.",
		},
		[]string{"room"},
	)

	schedulingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coworking",
			Name:      "scheduling_conflicts_total",
			Help:      "Count of booking attempts rejected as conflicts.",
		},
	)

	roomOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coworking",
			Name:      "room_operations_total",
			Help:      "Count of registry operations, by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsCancelled, schedulingConflicts, roomOperations)
	})
}

// IncSchedulingConflict counts a rejected booking attempt.
func IncSchedulingConflict() {
	schedulingConflicts.Inc()
}

// Attach subscribes the counters to the event bus.
func Attach(bus *events.Bus) {
	bus.Subscribe(events.TypeBookingCreated, func(ctx context.Context, evt events.Event) error {
		bookingsCreated.WithLabelValues(evt.Room).Inc()
		return nil
	})
	bus.Subscribe(events.TypeBookingCancelled, func(ctx context.Context, evt events.Event) error {
		bookingsCancelled.WithLabelValues(evt.Room).Inc()
		return nil
	})
	for kind, typ := range map[string]events.Type{
		"created": events.TypeRoomCreated,
		"renamed": events.TypeRoomRenamed,
		"deleted": events.TypeRoomDeleted,
	} {
		k := kind
		bus.Subscribe(typ, func(ctx context.Context, evt events.Event) error {
			roomOperations.WithLabelValues(k).Inc()
			return nil
		})
	}
}
