package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"quitcoach/database"
	"quitcoach/models"
	"quitcoach/utils"
)

// RegisterSlots opens timeSlotIDs on date for the coach and returns the tuples that
// were newly created or reactivated. Every id is validated before anything is written.
func (s *DefaultSchedulingService) RegisterSlots(ctx context.Context, coachID string, date models.Date, timeSlotIDs []int) ([]models.AvailabilitySlot, error) {
	if coachID == "" {
		return nil, s.reject("register", invalid("coachId", "is required"))
	}
	if date.IsZero() {
		return nil, s.reject("register", invalid("scheduleDate", "is required"))
	}
	if len(timeSlotIDs) == 0 {
		return nil, s.reject("register", invalid("timeSlotIds", "at least one time slot is required"))
	}

	unlock := s.locks.Lock(coachID)
	defer unlock()

	if err := s.checkNotPast(ctx, coachID, date); err != nil {
		return nil, s.reject("register", err)
	}
	keys := make([]models.SlotKey, 0, len(timeSlotIDs))
	for _, id := range timeSlotIDs {
		if _, err := s.GetTimeSlot(ctx, id); err != nil {
			return nil, s.reject("register", err)
		}
		keys = append(keys, models.SlotKey{Date: date, TimeSlotID: id})
	}
	return s.registerLocked(ctx, coachID, keys)
}

// RegisterBatch registers entries that may span several dates, as submitted by
// the schedule setup endpoint. It validates all entries before writing any.
func (s *DefaultSchedulingService) RegisterBatch(ctx context.Context, coachID string, entries []models.SetupSchedulesRequest) ([]models.AvailabilitySlot, error) {
	if coachID == "" {
		return nil, s.reject("register", invalid("coachId", "is required"))
	}
	if len(entries) == 0 {
		return nil, s.reject("register", invalid("schedules", "at least one entry is required"))
	}

	keys := make([]models.SlotKey, 0, len(entries))
	for i, e := range entries {
		date, err := models.ParseDate(e.ScheduleDate)
		if err != nil {
			return nil, s.reject("register", invalid(fmt.Sprintf("schedules[%d].scheduleDate", i), "must be YYYY-MM-DD"))
		}
		keys = append(keys, models.SlotKey{Date: date, TimeSlotID: e.TimeSlotID})
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Date.Before(keys[j].Date) })

	unlock := s.locks.Lock(coachID)
	defer unlock()

	for _, key := range keys {
		if err := s.checkNotPast(ctx, coachID, key.Date); err != nil {
			return nil, s.reject("register", err)
		}
		if _, err := s.GetTimeSlot(ctx, key.TimeSlotID); err != nil {
			return nil, s.reject("register", err)
		}
	}
	return s.registerLocked(ctx, coachID, keys)
}

func (s *DefaultSchedulingService) registerLocked(ctx context.Context, coachID string, keys []models.SlotKey) ([]models.AvailabilitySlot, error) {
	now := s.Clock.Now().UTC()
	created := make([]models.AvailabilitySlot, 0, len(keys))
	defer func() {
		if len(created) > 0 {
			s.invalidate(ctx, coachID)
		}
	}()

	for _, key := range keys {
		slot := models.AvailabilitySlot{
			CoachID:    coachID,
			Date:       key.Date,
			TimeSlotID: key.TimeSlotID,
			CreatedAt:  now,
		}
		isNew, err := s.Availability.Register(ctx, &slot)
		if err != nil {
			return created, fmt.Errorf("failed to register time slot %d on %s: %w", key.TimeSlotID, key.Date, err)
		}
		if isNew {
			created = append(created, slot)
			utils.SlotsRegistered.Inc()
		}
	}

	s.Logger.Info("Registered availability",
		zap.String("coachID", coachID), zap.Int("requested", len(keys)), zap.Int("created", len(created)))
	return created, nil
}

// WithdrawSlot closes an open tuple. It refuses while any SCHEDULED or CONFIRMED
// appointment is bound to it.
func (s *DefaultSchedulingService) WithdrawSlot(ctx context.Context, coachID string, date models.Date, timeSlotID int) error {
	if coachID == "" {
		return s.reject("withdraw", invalid("coachId", "is required"))
	}

	unlock := s.locks.Lock(coachID)
	defer unlock()

	if _, err := s.Availability.Get(ctx, coachID, date, timeSlotID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.reject("withdraw", &SlotNotRegisteredError{CoachID: coachID, Date: date, TimeSlotID: timeSlotID})
		}
		return err
	}

	active, err := s.activeBookings(ctx, coachID, date, timeSlotID, 0)
	if err != nil {
		return err
	}
	if active > 0 {
		return s.reject("withdraw", &SlotHasActiveBookingsError{CoachID: coachID, Date: date, TimeSlotID: timeSlotID, Active: active})
	}

	if err := s.Availability.Withdraw(ctx, coachID, date, timeSlotID, s.Clock.Now().UTC()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.reject("withdraw", &SlotNotRegisteredError{CoachID: coachID, Date: date, TimeSlotID: timeSlotID})
		}
		return fmt.Errorf("failed to withdraw time slot %d on %s: %w", timeSlotID, date, err)
	}
	utils.SlotsWithdrawn.Inc()
	s.invalidate(ctx, coachID)

	s.Logger.Info("Withdrew availability",
		zap.String("coachID", coachID), zap.String("date", date.String()), zap.Int("timeSlotID", timeSlotID))
	return nil
}

// GetWeek returns the coach's open tuples in the week containing weekStart.
func (s *DefaultSchedulingService) GetWeek(ctx context.Context, coachID string, weekStart models.Date) (map[models.SlotKey]models.AvailabilitySlot, error) {
	days := models.WeekWindow(weekStart)

	unlock := s.locks.RLock(coachID)
	defer unlock()

	slots, err := s.Availability.ListRange(ctx, coachID, days[0], days[len(days)-1])
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	out := make(map[models.SlotKey]models.AvailabilitySlot, len(slots))
	for _, slot := range slots {
		out[slot.Key()] = slot
	}
	return out, nil
}

func (s *DefaultSchedulingService) IsRegistered(ctx context.Context, coachID string, date models.Date, timeSlotID int) (bool, error) {
	_, err := s.Availability.Get(ctx, coachID, date, timeSlotID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	}
	return false, err
}

// activeBookings counts SCHEDULED/CONFIRMED appointments on the tuple, skipping exclude.
func (s *DefaultSchedulingService) activeBookings(ctx context.Context, coachID string, date models.Date, timeSlotID int, exclude int64) (int, error) {
	appts, err := s.Appointments.List(ctx, models.AppointmentFilter{
		CoachID:    coachID,
		TimeSlotID: timeSlotID,
		From:       date,
		To:         date,
		Statuses:   []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	n := 0
	for _, a := range appts {
		if a.ID != exclude {
			n++
		}
	}
	return n, nil
}
