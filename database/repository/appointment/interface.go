// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"sort"

	"quitcoach/models"
)

// AppointmentRepository persists appointment records.
type AppointmentRepository interface {
	// Create assigns appt.ID and stores the record.
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID returns the appointment or database.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	// Update replaces the stored record with appt. Returns database.ErrNotFound when missing.
	Update(ctx context.Context, appt *models.Appointment) error
	// Delete removes the record. Returns database.ErrNotFound when missing.
	Delete(ctx context.Context, id int64) error
	// List returns the matching appointments ordered by date, creation time, then ID.
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
}

// SortByCreation orders appointments by date, creation time, then ID.
func SortByCreation(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		a, b := appts[i], appts[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
