package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quitcoach/models"
)

// SweepStale cancels SCHEDULED appointments whose date is already behind the
// coach's today. They were never confirmed and can no longer take place.
// Returns the number of appointments cancelled.
func (s *DefaultSchedulingService) SweepStale(ctx context.Context) (int, error) {
	// No zone is more than a day ahead of UTC, so this bound covers every coach's yesterday.
	bound := models.LocalDateOf(s.Clock.Now(), time.UTC)
	stale, err := s.Appointments.List(ctx, models.AppointmentFilter{
		To:       bound,
		Statuses: []models.AppointmentStatus{models.StatusScheduled},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list scheduled appointments: %w", err)
	}

	byCoach := make(map[string][]models.Appointment)
	var order []string
	for _, a := range stale {
		if _, seen := byCoach[a.CoachID]; !seen {
			order = append(order, a.CoachID)
		}
		byCoach[a.CoachID] = append(byCoach[a.CoachID], a)
	}

	cancelled := 0
	for _, coachID := range order {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}
		n, err := s.sweepCoach(ctx, coachID, byCoach[coachID])
		cancelled += n
		if err != nil {
			return cancelled, err
		}
	}

	s.Logger.Info("Stale appointment sweep finished", zap.Int("candidates", len(stale)), zap.Int("cancelled", cancelled))
	return cancelled, nil
}

func (s *DefaultSchedulingService) sweepCoach(ctx context.Context, coachID string, appts []models.Appointment) (int, error) {
	unlock := s.locks.Lock(coachID)
	defer unlock()

	today, err := s.today(ctx, coachID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, listed := range appts {
		// Re-read under the lock; the appointment may have moved on since it was listed.
		a, err := s.GetAppointment(ctx, listed.ID)
		if err != nil {
			if ErrorCode(err) != "" {
				continue
			}
			return n, err
		}
		if a.Status != models.StatusScheduled || !a.Date.Before(today) {
			continue
		}
		if _, err := s.transitionLocked(ctx, a.ID, models.EventCancel); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
