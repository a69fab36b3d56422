// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"time"

	"quitcoach/models"
)

// AvailabilityRepository stores the (coach, date, slot) tuples coaches open for booking.
type AvailabilityRepository interface {
	// Register opens the tuple described by slot. An already active tuple is left
	// untouched and returned with created=false; a withdrawn tuple is reactivated
	// under its original ID and reported as created. slot.ID and slot.CreatedAt
	// are filled in on return.
	Register(ctx context.Context, slot *models.AvailabilitySlot) (created bool, err error)
	// Get returns the active tuple or database.ErrNotFound.
	Get(ctx context.Context, coachID string, date models.Date, timeSlotID int) (*models.AvailabilitySlot, error)
	// Withdraw marks an active tuple as withdrawn. Returns database.ErrNotFound when
	// no active tuple exists.
	Withdraw(ctx context.Context, coachID string, date models.Date, timeSlotID int, at time.Time) error
	// ListRange returns the coach's active tuples with from <= date <= to, ordered
	// by date then time slot ID.
	ListRange(ctx context.Context, coachID string, from, to models.Date) ([]models.AvailabilitySlot, error)
}
