package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"quitcoach/database"
	profileRepo "quitcoach/database/repository/profile"
	"quitcoach/models"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// ZoneResolver returns the calendar an owner lives in. "Today" for a coach or
// member is the date of Clock.Now() in that location.
type ZoneResolver interface {
	Location(ctx context.Context, ownerID string) (*time.Location, error)
}

// StaticZones resolves every owner to Default unless Overrides names them.
type StaticZones struct {
	Default   *time.Location
	Overrides map[string]*time.Location
}

func (z StaticZones) Location(ctx context.Context, ownerID string) (*time.Location, error) {
	if loc, ok := z.Overrides[ownerID]; ok && loc != nil {
		return loc, nil
	}
	if z.Default == nil {
		return time.UTC, nil
	}
	return z.Default, nil
}

// ProfileZones reads the owner's timeZone from the profile directory, falling back
// to Default when the profile is missing or names an unknown zone. Directory
// failures other than not-found are returned.
type ProfileZones struct {
	Profiles profileRepo.ProfileDirectory
	Default  *time.Location
	Logger   *zap.Logger

	mu    sync.Mutex
	zones map[string]*time.Location
}

func (z *ProfileZones) Location(ctx context.Context, ownerID string) (*time.Location, error) {
	fallback := z.Default
	if fallback == nil {
		fallback = time.UTC
	}
	profile, err := z.Profiles.GetByID(ctx, ownerID)
	if errors.Is(err, database.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		if z.Logger != nil {
			z.Logger.Error("Profile lookup for time zone failed", zap.String("ownerID", ownerID), zap.Error(err))
		}
		return nil, fmt.Errorf("resolve time zone of %s: %w", ownerID, err)
	}
	if profile.TimeZone == "" {
		return fallback, nil
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if loc, ok := z.zones[profile.TimeZone]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(profile.TimeZone)
	if err != nil {
		if z.Logger != nil {
			z.Logger.Warn("Unknown profile time zone, using default",
				zap.String("ownerID", ownerID), zap.String("timeZone", profile.TimeZone), zap.Error(err))
		}
		loc = fallback
	}
	if z.zones == nil {
		z.zones = make(map[string]*time.Location)
	}
	z.zones[profile.TimeZone] = loc
	return loc, nil
}

// today returns the owner's current calendar date.
func (s *DefaultSchedulingService) today(ctx context.Context, ownerID string) (models.Date, error) {
	loc, err := s.Zones.Location(ctx, ownerID)
	if err != nil {
		return models.Date{}, err
	}
	return models.LocalDateOf(s.Clock.Now(), loc), nil
}
