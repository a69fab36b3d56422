// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"quitcoach/database"
	"quitcoach/models"
)

// staticCatalog is an immutable, pre-sorted catalog.
type staticCatalog struct {
	slots []models.TimeSlot
	byID  map[int]int
}

// NewStaticCatalog validates slots and freezes them into a catalog.
func NewStaticCatalog(slots []models.TimeSlot) (TimeSlotCatalog, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}

	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartTime == sorted[j].StartTime {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	byID := make(map[int]int, len(sorted))
	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[sorted[i].ID]; dup {
			return nil, fmt.Errorf("duplicate time slot id %d", sorted[i].ID)
		}
		if sorted[i].Label == "" {
			sorted[i].Label = sorted[i].DefaultLabel()
		}
		byID[sorted[i].ID] = i
	}
	return &staticCatalog{slots: sorted, byID: byID}, nil
}

func (c *staticCatalog) ListSlots(ctx context.Context) ([]models.TimeSlot, error) {
	if len(c.slots) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]models.TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out, nil
}

func (c *staticCatalog) GetByID(ctx context.Context, id int) (*models.TimeSlot, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("time slot %d: %w", id, database.ErrNotFound)
	}
	slot := c.slots[i]
	return &slot, nil
}

// ParseCatalog turns "HH:MM-HH:MM" specs into slots numbered from 1 in the given order.
func ParseCatalog(specs []string) ([]models.TimeSlot, error) {
	slots := make([]models.TimeSlot, 0, len(specs))
	for i, spec := range specs {
		start, end, ok := strings.Cut(strings.TrimSpace(spec), "-")
		if !ok {
			return nil, fmt.Errorf("time slot %q: expected HH:MM-HH:MM", spec)
		}
		from, err := models.ParseTimeOfDay(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("time slot %q: %w", spec, err)
		}
		to, err := models.ParseTimeOfDay(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("time slot %q: %w", spec, err)
		}
		slot := models.TimeSlot{ID: i + 1, StartTime: from, EndTime: to}
		slot.Label = slot.DefaultLabel()
		slots = append(slots, slot)
	}
	return slots, nil
}
