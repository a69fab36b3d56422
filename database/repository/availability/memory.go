package availabilityRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quitcoach/database"
	"quitcoach/models"
)

type memoryKey struct {
	coachID    string
	date       models.Date
	timeSlotID int
}

// memoryAvailabilityRepo keeps availability in process memory. It is safe for
// concurrent use and hands out copies only.
type memoryAvailabilityRepo struct {
	mu     sync.RWMutex
	nextID int64
	slots  map[memoryKey]models.AvailabilitySlot
}

var _ AvailabilityRepository = (*memoryAvailabilityRepo)(nil)

// NewMemoryAvailabilityRepo creates an empty in-memory repository.
func NewMemoryAvailabilityRepo() AvailabilityRepository {
	return &memoryAvailabilityRepo{
		nextID: 1,
		slots:  make(map[memoryKey]models.AvailabilitySlot),
	}
}

func keyOf(coachID string, date models.Date, timeSlotID int) memoryKey {
	return memoryKey{coachID: coachID, date: date, timeSlotID: timeSlotID}
}

func (r *memoryAvailabilityRepo) Register(ctx context.Context, slot *models.AvailabilitySlot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(slot.CoachID, slot.Date, slot.TimeSlotID)
	existing, ok := r.slots[key]
	switch {
	case ok && !existing.Withdrawn:
		*slot = existing
		return false, nil
	case ok:
		existing.Withdrawn = false
		existing.WithdrawnAt = nil
		r.slots[key] = existing
		*slot = existing
		return true, nil
	}

	slot.ID = r.nextID
	r.nextID++
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.Withdrawn = false
	slot.WithdrawnAt = nil
	r.slots[key] = *slot
	return true, nil
}

func (r *memoryAvailabilityRepo) Get(ctx context.Context, coachID string, date models.Date, timeSlotID int) (*models.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[keyOf(coachID, date, timeSlotID)]
	if !ok || slot.Withdrawn {
		return nil, fmt.Errorf("availability %s/%s/%d: %w", coachID, date, timeSlotID, database.ErrNotFound)
	}
	return &slot, nil
}

func (r *memoryAvailabilityRepo) Withdraw(ctx context.Context, coachID string, date models.Date, timeSlotID int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(coachID, date, timeSlotID)
	slot, ok := r.slots[key]
	if !ok || slot.Withdrawn {
		return fmt.Errorf("availability %s/%s/%d: %w", coachID, date, timeSlotID, database.ErrNotFound)
	}
	slot.Withdrawn = true
	slot.WithdrawnAt = &at
	r.slots[key] = slot
	return nil
}

func (r *memoryAvailabilityRepo) ListRange(ctx context.Context, coachID string, from, to models.Date) ([]models.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.AvailabilitySlot
	for key, slot := range r.slots {
		if key.coachID != coachID || slot.Withdrawn {
			continue
		}
		if slot.Date.Before(from) || slot.Date.After(to) {
			continue
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].TimeSlotID < out[j].TimeSlotID
	})
	return out, nil
}
