package scheduling

import (
	"context"

	"quitcoach/models"
)

// SchedulingService is the coach availability and appointment booking engine.
type SchedulingService interface {
	// Catalog
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	GetTimeSlot(ctx context.Context, id int) (*models.TimeSlot, error)

	// Availability registry
	RegisterSlots(ctx context.Context, coachID string, date models.Date, timeSlotIDs []int) ([]models.AvailabilitySlot, error)
	RegisterBatch(ctx context.Context, coachID string, entries []models.SetupSchedulesRequest) ([]models.AvailabilitySlot, error)
	WithdrawSlot(ctx context.Context, coachID string, date models.Date, timeSlotID int) error
	GetWeek(ctx context.Context, coachID string, weekStart models.Date) (map[models.SlotKey]models.AvailabilitySlot, error)
	IsRegistered(ctx context.Context, coachID string, date models.Date, timeSlotID int) (bool, error)

	// Appointments
	CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, patch AppointmentPatch) (*models.Appointment, error)
	Transition(ctx context.Context, id int64, event string) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
	GetAppointment(ctx context.Context, id int64) (*models.Appointment, error)

	// Queries
	MaterializeWeek(ctx context.Context, coachID string, weekStart models.Date) (*models.WeekGrid, error)
	GetAppointmentsForDate(ctx context.Context, ownerID string, date models.Date, role models.Role) ([]models.Appointment, error)
	GetTodayAppointments(ctx context.Context, ownerID string, role models.Role) ([]models.Appointment, error)
	GetUpcomingAppointments(ctx context.Context, ownerID string, role models.Role) ([]models.Appointment, error)
	ListAppointments(ctx context.Context, ownerID string, role models.Role, q AppointmentQuery) ([]models.Appointment, error)
	Today(ctx context.Context, ownerID string) (models.Date, error)

	// Maintenance
	SweepStale(ctx context.Context) (int, error)
}

// CreateAppointmentInput carries a booking request after transport decoding.
type CreateAppointmentInput struct {
	CoachID         string
	MemberID        string
	Date            models.Date
	TimeSlotID      int
	Method          string
	DurationMinutes int
	Note            string
}

// AppointmentPatch lists the fields to change; nil fields are left alone.
type AppointmentPatch struct {
	Date            *models.Date
	TimeSlotID      *int
	Method          *string
	DurationMinutes *int
	Note            *string
}

// AppointmentQuery narrows ListAppointments. Zero values are unbounded.
type AppointmentQuery struct {
	From     models.Date
	To       models.Date
	Statuses []models.AppointmentStatus
}
