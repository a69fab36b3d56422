package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the endpoint handlers the router mounts.
type HandlerBundle struct {
	// Catalog and schedules
	ListTimeSlotsHandler    gin.HandlerFunc
	SetupSchedulesHandler   gin.HandlerFunc
	WithdrawScheduleHandler gin.HandlerFunc
	GetWeekHandler          gin.HandlerFunc

	// Appointments
	CreateAppointmentHandler     gin.HandlerFunc
	GetAppointmentHandler        gin.HandlerFunc
	UpdateAppointmentHandler     gin.HandlerFunc
	TransitionAppointmentHandler gin.HandlerFunc
	DeleteAppointmentHandler     gin.HandlerFunc
	CoachAppointmentsHandler     gin.HandlerFunc
	MemberAppointmentsHandler    gin.HandlerFunc

	// Health
	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires a SchedulingHandler into a bundle.
func NewHandlerBundle(h *SchedulingHandler) *HandlerBundle {
	return &HandlerBundle{
		ListTimeSlotsHandler:         h.ListTimeSlotsHandler,
		SetupSchedulesHandler:        h.SetupSchedulesHandler,
		WithdrawScheduleHandler:      h.WithdrawScheduleHandler,
		GetWeekHandler:               h.GetWeekHandler,
		CreateAppointmentHandler:     h.CreateAppointmentHandler,
		GetAppointmentHandler:        h.GetAppointmentHandler,
		UpdateAppointmentHandler:     h.UpdateAppointmentHandler,
		TransitionAppointmentHandler: h.TransitionAppointmentHandler,
		DeleteAppointmentHandler:     h.DeleteAppointmentHandler,
		CoachAppointmentsHandler:     h.CoachAppointmentsHandler,
		MemberAppointmentsHandler:    h.MemberAppointmentsHandler,
		HealthHandler:                HealthHandler,
	}
}
