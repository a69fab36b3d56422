package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SlotsRegistered counts availability slots opened (or reopened) by coaches.
	SlotsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "availability_slots_registered_total",
		Help:      "Availability slots registered by coaches.",
	})

	// SlotsWithdrawn counts availability slots withdrawn by coaches.
	SlotsWithdrawn = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "availability_slots_withdrawn_total",
		Help:      "Availability slots withdrawn by coaches.",
	})

	// AppointmentsCreated counts successful bookings.
	AppointmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "appointments_created_total",
		Help:      "Appointments created.",
	})

	// AppointmentTransitions counts status changes by event and resulting status.
	AppointmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "appointment_transitions_total",
		Help:      "Appointment status transitions.",
	}, []string{"event", "status"})

	// BookingRejections counts refused operations by error code.
	BookingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "booking_rejections_total",
		Help:      "Scheduling operations refused with a domain error.",
	}, []string{"code"})

	// WeekCacheLookups counts week-grid cache hits and misses.
	WeekCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quitcoach",
		Name:      "week_cache_lookups_total",
		Help:      "Week grid cache lookups.",
	}, []string{"result"})
)
