package appointmentRepo

import (
	"context"
	"fmt"
	"sync"

	"quitcoach/database"
	"quitcoach/models"
)

// memoryAppointmentRepo keeps appointments in process memory. It is safe for
// concurrent use and hands out copies only.
type memoryAppointmentRepo struct {
	mu           sync.RWMutex
	nextID       int64
	appointments map[int64]models.Appointment
}

var _ AppointmentRepository = (*memoryAppointmentRepo)(nil)

// NewMemoryAppointmentRepo creates an empty in-memory repository.
func NewMemoryAppointmentRepo() AppointmentRepository {
	return &memoryAppointmentRepo{
		nextID:       1,
		appointments: make(map[int64]models.Appointment),
	}
}

func (r *memoryAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt.ID = r.nextID
	r.nextID++
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *memoryAppointmentRepo) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, database.ErrNotFound)
	}
	return &appt, nil
}

func (r *memoryAppointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[appt.ID]; !ok {
		return fmt.Errorf("appointment %d: %w", appt.ID, database.ErrNotFound)
	}
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *memoryAppointmentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return fmt.Errorf("appointment %d: %w", id, database.ErrNotFound)
	}
	delete(r.appointments, id)
	return nil
}

func (r *memoryAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, appt := range r.appointments {
		if filter.Matches(appt) {
			out = append(out, appt)
		}
	}
	SortByCreation(out)
	return out, nil
}
