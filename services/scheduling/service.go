package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quitcoach/database"
	appointmentRepo "quitcoach/database/repository/appointment"
	availabilityRepo "quitcoach/database/repository/availability"
	timeslotRepo "quitcoach/database/repository/timeslot"
	"quitcoach/models"
	"quitcoach/utils"
)

// MaxNoteLength is the longest appointment note accepted, in characters.
const MaxNoteLength = 1000

// Options wires a DefaultSchedulingService. Catalog, Availability and
// Appointments are required; the rest have defaults.
type Options struct {
	Catalog      timeslotRepo.TimeSlotCatalog
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Clock        Clock
	Zones        ZoneResolver
	Cache        WeekCache
	Logger       *zap.Logger
	// SlotCapacity caps SCHEDULED/CONFIRMED appointments per (coach, date, slot). 0 is unlimited.
	SlotCapacity int
}

// DefaultSchedulingService implements SchedulingService. Writes are serialized
// per coach; week and date reads hold the coach's read lock.
type DefaultSchedulingService struct {
	Catalog      timeslotRepo.TimeSlotCatalog
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Clock        Clock
	Zones        ZoneResolver
	Cache        WeekCache
	Logger       *zap.Logger
	SlotCapacity int

	locks *coachLocks
}

var _ SchedulingService = (*DefaultSchedulingService)(nil)

// New builds the service. It fails with timeslotRepo.ErrEmptyCatalog when no time
// slots are configured.
func New(ctx context.Context, opts Options) (*DefaultSchedulingService, error) {
	if opts.Catalog == nil || opts.Availability == nil || opts.Appointments == nil {
		return nil, errors.New("scheduling: catalog, availability and appointment repositories are required")
	}
	if opts.SlotCapacity < 0 {
		return nil, fmt.Errorf("scheduling: slot capacity must be >= 0, got %d", opts.SlotCapacity)
	}
	slots, err := opts.Catalog.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduling: %w", err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("scheduling: %w", timeslotRepo.ErrEmptyCatalog)
	}

	s := &DefaultSchedulingService{
		Catalog:      opts.Catalog,
		Availability: opts.Availability,
		Appointments: opts.Appointments,
		Clock:        opts.Clock,
		Zones:        opts.Zones,
		Cache:        opts.Cache,
		Logger:       opts.Logger,
		SlotCapacity: opts.SlotCapacity,
		locks:        newCoachLocks(),
	}
	if s.Clock == nil {
		s.Clock = SystemClock
	}
	if s.Zones == nil {
		s.Zones = StaticZones{Default: time.UTC}
	}
	if s.Cache == nil {
		s.Cache = NoopWeekCache{}
	}
	if s.Logger == nil {
		s.Logger = utils.GetLogger()
	}
	return s, nil
}

func (s *DefaultSchedulingService) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return s.Catalog.ListSlots(ctx)
}

// GetTimeSlot returns the catalog entry or UnknownSlotError.
func (s *DefaultSchedulingService) GetTimeSlot(ctx context.Context, id int) (*models.TimeSlot, error) {
	slot, err := s.Catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &UnknownSlotError{TimeSlotID: id}
		}
		return nil, err
	}
	return slot, nil
}

// Today returns the owner's current calendar date.
func (s *DefaultSchedulingService) Today(ctx context.Context, ownerID string) (models.Date, error) {
	return s.today(ctx, ownerID)
}

func (s *DefaultSchedulingService) checkNotPast(ctx context.Context, coachID string, date models.Date) error {
	today, err := s.today(ctx, coachID)
	if err != nil {
		return err
	}
	if date.Before(today) {
		return &PastDateError{Date: date, Today: today}
	}
	return nil
}

// reject records the refusal metric for domain errors and passes err through.
func (s *DefaultSchedulingService) reject(op string, err error) error {
	if code := ErrorCode(err); code != "" {
		utils.BookingRejections.WithLabelValues(code).Inc()
		s.Logger.Debug("Scheduling operation refused", zap.String("op", op), zap.String("code", code), zap.Error(err))
	}
	return err
}

func (s *DefaultSchedulingService) invalidate(ctx context.Context, coachID string) {
	if err := s.Cache.Invalidate(ctx, coachID); err != nil {
		s.Logger.Warn("Failed to invalidate week cache", zap.String("coachID", coachID), zap.Error(err))
	}
}
