// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"errors"

	"quitcoach/models"
)

// ErrEmptyCatalog means no time slots are configured. Callers must treat it as a
// configuration error rather than an empty schedule.
var ErrEmptyCatalog = errors.New("time slot catalog is empty")

// TimeSlotCatalog is the fixed, ordered list of bookable time-of-day windows
// shared by every coach.
type TimeSlotCatalog interface {
	// ListSlots returns every slot ordered by start time.
	ListSlots(ctx context.Context) ([]models.TimeSlot, error)
	// GetByID returns the slot with the given id or database.ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.TimeSlot, error)
}
