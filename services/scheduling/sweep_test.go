package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitcoach/models"
)

func TestSweepStale_CancelsOnlyPastScheduled(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	tuesday := monday.AddDays(1)
	f.register(t, monday, 1, 2)
	f.register(t, tuesday, 1)

	stale := f.book(t, "member-a", monday, 1)
	confirmed := f.book(t, "member-b", monday, 2)
	current := f.book(t, "member-c", tuesday, 1)
	_, err := f.svc.Transition(ctx, confirmed.ID, "confirm")
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC))
	n, err := f.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := f.svc.GetAppointment(ctx, stale.ID)
	assert.Equal(t, models.StatusCancelled, got.Status)
	got, _ = f.svc.GetAppointment(ctx, confirmed.ID)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	got, _ = f.svc.GetAppointment(ctx, current.ID)
	assert.Equal(t, models.StatusScheduled, got.Status)

	// A second run finds nothing left to do.
	n, err = f.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepStale_UsesCoachCalendar(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)
	appt := f.book(t, memberID, monday, 1)

	// Tuesday 02:00 UTC is still Monday for a coach at UTC-5.
	f.svc.Zones = StaticZones{
		Default:   time.UTC,
		Overrides: map[string]*time.Location{coachID: time.FixedZone("UTC-5", -5*60*60)},
	}
	f.clock.Set(time.Date(2025, 6, 17, 2, 0, 0, 0, time.UTC))
	n, err := f.svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, _ := f.svc.GetAppointment(ctx, appt.ID)
	assert.Equal(t, models.StatusScheduled, got.Status)
}
