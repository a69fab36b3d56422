package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"quitcoach/database"
	"quitcoach/models"
	"quitcoach/utils"
)

// CreateAppointment books a member into a registered (coach, date, slot) tuple.
// The new appointment starts SCHEDULED.
func (s *DefaultSchedulingService) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	if in.CoachID == "" {
		return nil, s.reject("create", invalid("coachId", "is required"))
	}
	if in.MemberID == "" {
		return nil, s.reject("create", invalid("memberId", "is required"))
	}
	if in.Date.IsZero() {
		return nil, s.reject("create", invalid("scheduleDate", "is required"))
	}
	method, err := models.ParseMethod(in.Method)
	if err != nil {
		return nil, s.reject("create", invalid("method", "must be REMOTE or IN_PERSON"))
	}
	if err := validateNote(in.Note); err != nil {
		return nil, s.reject("create", err)
	}

	slot, err := s.GetTimeSlot(ctx, in.TimeSlotID)
	if err != nil {
		return nil, s.reject("create", err)
	}
	duration, err := resolveDuration(in.DurationMinutes, slot)
	if err != nil {
		return nil, s.reject("create", err)
	}

	unlock := s.locks.Lock(in.CoachID)
	defer unlock()

	if err := s.checkBookable(ctx, in.CoachID, in.Date, in.TimeSlotID, 0); err != nil {
		return nil, s.reject("create", err)
	}

	now := s.Clock.Now().UTC()
	appt := &models.Appointment{
		CoachID:         in.CoachID,
		MemberID:        in.MemberID,
		Date:            in.Date,
		TimeSlotID:      in.TimeSlotID,
		Method:          method,
		DurationMinutes: duration,
		Note:            in.Note,
		Status:          models.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	utils.AppointmentsCreated.Inc()
	s.invalidate(ctx, in.CoachID)

	s.Logger.Info("Appointment created",
		zap.Int64("appointmentID", appt.ID),
		zap.String("coachID", appt.CoachID),
		zap.String("memberID", appt.MemberID),
		zap.String("date", appt.Date.String()),
		zap.Int("timeSlotID", appt.TimeSlotID))
	return appt, nil
}

// UpdateAppointment applies patch to an open appointment. Moving it to another
// date or slot re-runs the booking checks against the target.
func (s *DefaultSchedulingService) UpdateAppointment(ctx context.Context, id int64, patch AppointmentPatch) (*models.Appointment, error) {
	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.reject("update", err)
	}

	unlock := s.locks.Lock(current.CoachID)
	defer unlock()

	// Re-read under the coach lock so the status check sees the latest write.
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.reject("update", err)
	}
	if !appt.Status.IsActive() {
		return nil, s.reject("update", &ImmutableStateError{AppointmentID: id, Status: appt.Status})
	}

	target := *appt
	if patch.Date != nil {
		target.Date = *patch.Date
	}
	if patch.TimeSlotID != nil {
		target.TimeSlotID = *patch.TimeSlotID
	}
	if patch.Method != nil {
		method, err := models.ParseMethod(*patch.Method)
		if err != nil {
			return nil, s.reject("update", invalid("method", "must be REMOTE or IN_PERSON"))
		}
		target.Method = method
	}
	if patch.Note != nil {
		if err := validateNote(*patch.Note); err != nil {
			return nil, s.reject("update", err)
		}
		target.Note = *patch.Note
	}

	slot, err := s.GetTimeSlot(ctx, target.TimeSlotID)
	if err != nil {
		return nil, s.reject("update", err)
	}
	if patch.DurationMinutes != nil {
		target.DurationMinutes = *patch.DurationMinutes
	}
	if target.DurationMinutes, err = resolveDuration(target.DurationMinutes, slot); err != nil {
		return nil, s.reject("update", err)
	}

	if target.Date != appt.Date || target.TimeSlotID != appt.TimeSlotID {
		if err := s.checkBookable(ctx, target.CoachID, target.Date, target.TimeSlotID, target.ID); err != nil {
			return nil, s.reject("update", err)
		}
	}

	target.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Appointments.Update(ctx, &target); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, s.reject("update", notFound(id))
		}
		return nil, fmt.Errorf("failed to update appointment %d: %w", id, err)
	}
	s.invalidate(ctx, target.CoachID)

	s.Logger.Info("Appointment updated", zap.Int64("appointmentID", id), zap.String("coachID", target.CoachID))
	return &target, nil
}

// Transition applies a lifecycle event. Unknown events are a ValidationError and
// events the current status does not accept are an IllegalTransitionError.
func (s *DefaultSchedulingService) Transition(ctx context.Context, id int64, event string) (*models.Appointment, error) {
	ev, err := models.ParseEvent(event)
	if err != nil {
		return nil, s.reject("transition", invalid("event", "must be one of confirm, cancel, complete, no-show"))
	}

	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.reject("transition", err)
	}

	unlock := s.locks.Lock(current.CoachID)
	defer unlock()

	appt, err := s.transitionLocked(ctx, id, ev)
	if err != nil {
		return nil, s.reject("transition", err)
	}
	return appt, nil
}

func (s *DefaultSchedulingService) transitionLocked(ctx context.Context, id int64, ev models.AppointmentEvent) (*models.Appointment, error) {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := models.NextStatus(appt.Status, ev)
	if !ok {
		return nil, &IllegalTransitionError{AppointmentID: id, From: appt.Status, Event: ev}
	}

	from := appt.Status
	appt.Status = next
	appt.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Appointments.Update(ctx, appt); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to update appointment %d: %w", id, err)
	}
	utils.AppointmentTransitions.WithLabelValues(string(ev), string(next)).Inc()
	s.invalidate(ctx, appt.CoachID)

	s.Logger.Info("Appointment status changed",
		zap.Int64("appointmentID", id),
		zap.String("event", string(ev)),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	return appt, nil
}

// DeleteAppointment removes the record regardless of status. Cancelling keeps it.
func (s *DefaultSchedulingService) DeleteAppointment(ctx context.Context, id int64) error {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return s.reject("delete", err)
	}

	unlock := s.locks.Lock(appt.CoachID)
	defer unlock()

	if err := s.Appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return s.reject("delete", notFound(id))
		}
		return fmt.Errorf("failed to delete appointment %d: %w", id, err)
	}
	s.invalidate(ctx, appt.CoachID)

	s.Logger.Info("Appointment deleted", zap.Int64("appointmentID", id), zap.String("coachID", appt.CoachID))
	return nil
}

func (s *DefaultSchedulingService) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to fetch appointment %d: %w", id, err)
	}
	return appt, nil
}

// checkBookable verifies date, registration and capacity for a booking on the
// tuple. Callers hold the coach's write lock.
func (s *DefaultSchedulingService) checkBookable(ctx context.Context, coachID string, date models.Date, timeSlotID int, exclude int64) error {
	if err := s.checkNotPast(ctx, coachID, date); err != nil {
		return err
	}
	registered, err := s.IsRegistered(ctx, coachID, date, timeSlotID)
	if err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}
	if !registered {
		return &SlotNotRegisteredError{CoachID: coachID, Date: date, TimeSlotID: timeSlotID}
	}
	if s.SlotCapacity == 0 {
		return nil
	}
	active, err := s.activeBookings(ctx, coachID, date, timeSlotID, exclude)
	if err != nil {
		return err
	}
	if active >= s.SlotCapacity {
		return &SlotFullError{CoachID: coachID, Date: date, TimeSlotID: timeSlotID, Capacity: s.SlotCapacity}
	}
	return nil
}

// resolveDuration defaults 0 to the slot length and rejects anything outside it.
func resolveDuration(minutes int, slot *models.TimeSlot) (int, error) {
	length := slot.DurationMinutes()
	switch {
	case minutes < 0:
		return 0, invalid("durationMinutes", "must not be negative")
	case minutes == 0:
		return length, nil
	case minutes > length:
		return 0, invalid("durationMinutes", "must not exceed the %d-minute time slot", length)
	}
	return minutes, nil
}

func validateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return invalid("note", "must be at most %d characters", MaxNoteLength)
	}
	return nil
}

func notFound(id int64) error {
	return &NotFoundError{Resource: "appointment", ID: strconv.FormatInt(id, 10)}
}
