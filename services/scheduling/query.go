package scheduling

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"quitcoach/models"
)

// MaterializeWeek builds the date x slot grid for the week containing weekStart.
// The grid is read under the coach's read lock, so it never mixes states from
// before and after a concurrent write.
func (s *DefaultSchedulingService) MaterializeWeek(ctx context.Context, coachID string, weekStart models.Date) (*models.WeekGrid, error) {
	if coachID == "" {
		return nil, invalid("coachId", "is required")
	}
	days := models.WeekWindow(weekStart)
	monday, sunday := days[0], days[len(days)-1]

	unlock := s.locks.RLock(coachID)
	defer unlock()

	if grid, ok := s.Cache.Get(ctx, coachID, monday); ok {
		return grid, nil
	}

	catalog, err := s.Catalog.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.Availability.ListRange(ctx, coachID, monday, sunday)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	appts, err := s.Appointments.List(ctx, models.AppointmentFilter{CoachID: coachID, From: monday, To: sunday})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	grid := buildWeekGrid(coachID, days, catalog, open, appts)

	// Stored under the read lock, so a concurrent write cannot slip in between
	// the reads above and the cache version this entry is filed under.
	if err := s.Cache.Set(ctx, coachID, monday, grid); err != nil {
		s.Logger.Warn("Failed to cache week grid", zap.String("coachID", coachID), zap.Error(err))
	}
	return grid, nil
}

func buildWeekGrid(coachID string, days []models.Date, catalog []models.TimeSlot, open []models.AvailabilitySlot, appts []models.Appointment) *models.WeekGrid {
	registered := make(map[models.SlotKey]models.AvailabilitySlot, len(open))
	for _, slot := range open {
		registered[slot.Key()] = slot
	}
	booked := make(map[models.SlotKey][]models.Appointment)
	for _, a := range appts {
		key := models.SlotKey{Date: a.Date, TimeSlotID: a.TimeSlotID}
		booked[key] = append(booked[key], a)
	}

	grid := &models.WeekGrid{CoachID: coachID, WeekStart: days[0], Days: make([]models.DaySchedule, len(days))}
	for i, date := range days {
		day := models.DaySchedule{Date: date, Cells: make([]models.ScheduleCell, len(catalog))}
		for j, ts := range catalog {
			key := models.SlotKey{Date: date, TimeSlotID: ts.ID}
			cell := models.ScheduleCell{TimeSlot: ts, Appointments: booked[key]}
			if cell.Appointments == nil {
				cell.Appointments = []models.Appointment{}
			}
			sortByCreation(cell.Appointments)
			if reg, ok := registered[key]; ok {
				reg := reg
				cell.Registered = true
				cell.Schedule = &reg
			}
			cell.Primary = primaryOf(cell.Appointments)

			switch {
			case cell.Primary != nil:
				cell.State = models.CellBooked
			case cell.Registered:
				cell.State = models.CellAvailable
			default:
				cell.State = models.CellUnavailable
			}
			day.Cells[j] = cell
		}
		grid.Days[i] = day
	}
	return grid
}

// primaryOf returns the earliest-created appointment that is not cancelled.
// appts must already be in creation order.
func primaryOf(appts []models.Appointment) *models.Appointment {
	for i := range appts {
		if appts[i].Status != models.StatusCancelled {
			p := appts[i]
			return &p
		}
	}
	return nil
}

// GetAppointmentsForDate lists the owner's appointments on date ordered by slot
// start time, then creation.
func (s *DefaultSchedulingService) GetAppointmentsForDate(ctx context.Context, ownerID string, date models.Date, role models.Role) ([]models.Appointment, error) {
	return s.ListAppointments(ctx, ownerID, role, AppointmentQuery{From: date, To: date})
}

// GetTodayAppointments lists the owner's appointments dated today in the owner's calendar.
func (s *DefaultSchedulingService) GetTodayAppointments(ctx context.Context, ownerID string, role models.Role) ([]models.Appointment, error) {
	today, err := s.today(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.ListAppointments(ctx, ownerID, role, AppointmentQuery{From: today, To: today})
}

// GetUpcomingAppointments lists appointments strictly after today. Later slots of
// the current day are not upcoming.
func (s *DefaultSchedulingService) GetUpcomingAppointments(ctx context.Context, ownerID string, role models.Role) ([]models.Appointment, error) {
	today, err := s.today(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.ListAppointments(ctx, ownerID, role, AppointmentQuery{From: today.AddDays(1)})
}

// ListAppointments lists the owner's appointments ordered by date, slot start
// time, creation time and ID.
func (s *DefaultSchedulingService) ListAppointments(ctx context.Context, ownerID string, role models.Role, q AppointmentQuery) ([]models.Appointment, error) {
	if ownerID == "" {
		return nil, invalid("ownerId", "is required")
	}
	if role != models.RoleCoach && role != models.RoleMember {
		return nil, invalid("role", "must be coach or member")
	}

	filter := models.ForOwner(role, ownerID)
	filter.From = q.From
	filter.To = q.To
	filter.Statuses = q.Statuses

	if role == models.RoleCoach {
		unlock := s.locks.RLock(ownerID)
		defer unlock()
	}

	catalog, err := s.Catalog.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.Appointments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	sortBySlot(appts, catalog)
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

func sortByCreation(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if !appts[i].CreatedAt.Equal(appts[j].CreatedAt) {
			return appts[i].CreatedAt.Before(appts[j].CreatedAt)
		}
		return appts[i].ID < appts[j].ID
	})
}

// sortBySlot orders by date, catalog position (start time), creation time and ID.
func sortBySlot(appts []models.Appointment, catalog []models.TimeSlot) {
	rank := make(map[int]int, len(catalog))
	for i, ts := range catalog {
		rank[ts.ID] = i
	}
	sort.SliceStable(appts, func(i, j int) bool {
		a, b := appts[i], appts[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if rank[a.TimeSlotID] != rank[b.TimeSlotID] {
			return rank[a.TimeSlotID] < rank[b.TimeSlotID]
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
