package scheduling

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitcoach/models"
)

func TestCreateAppointment_Defaults(t *testing.T) {
	f := newFixture(t, 0)
	f.register(t, monday, 2)

	appt := f.book(t, memberID, monday, 2)
	assert.NotZero(t, appt.ID)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, models.MethodRemote, appt.Method)
	assert.Equal(t, 60, appt.DurationMinutes)
	assert.Equal(t, f.clock.Now().UTC(), appt.CreatedAt)
	assert.Equal(t, 2, f.cache.invalidations) // registration + booking
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)

	base := CreateAppointmentInput{CoachID: coachID, MemberID: memberID, Date: monday, TimeSlotID: 1}
	cases := map[string]func(in *CreateAppointmentInput){
		"missing coach":     func(in *CreateAppointmentInput) { in.CoachID = "" },
		"missing member":    func(in *CreateAppointmentInput) { in.MemberID = "" },
		"missing date":      func(in *CreateAppointmentInput) { in.Date = models.Date{} },
		"bad method":        func(in *CreateAppointmentInput) { in.Method = "CARRIER_PIGEON" },
		"negative duration": func(in *CreateAppointmentInput) { in.DurationMinutes = -5 },
		"duration too long": func(in *CreateAppointmentInput) { in.DurationMinutes = 61 },
		"note too long":     func(in *CreateAppointmentInput) { in.Note = strings.Repeat("x", MaxNoteLength+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := f.svc.CreateAppointment(ctx, in)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, "VALIDATION_ERROR", ErrorCode(err))
		})
	}

	in := base
	in.Method = "in_person"
	in.DurationMinutes = 45
	in.Note = strings.Repeat("é", MaxNoteLength)
	appt, err := f.svc.CreateAppointment(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.MethodInPerson, appt.Method)
	assert.Equal(t, 45, appt.DurationMinutes)
}

func TestCreateAppointment_UnregisteredCreatesNothing(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.CreateAppointment(ctx, CreateAppointmentInput{
		CoachID: coachID, MemberID: memberID, Date: monday.AddDays(1), TimeSlotID: 1,
	})
	var notReg *SlotNotRegisteredError
	require.ErrorAs(t, err, &notReg)

	appts, err := f.svc.ListAppointments(ctx, memberID, models.RoleMember, AppointmentQuery{})
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestCreateAppointment_PastAndUnknown(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)
	f.clock.Set(f.clock.Now().AddDate(0, 0, 1))

	_, err := f.svc.CreateAppointment(ctx, CreateAppointmentInput{CoachID: coachID, MemberID: memberID, Date: monday, TimeSlotID: 1})
	var past *PastDateError
	assert.ErrorAs(t, err, &past)

	_, err = f.svc.CreateAppointment(ctx, CreateAppointmentInput{CoachID: coachID, MemberID: memberID, Date: monday.AddDays(1), TimeSlotID: 7})
	var unknown *UnknownSlotError
	assert.ErrorAs(t, err, &unknown)
}

func TestTwoBookingsShareSlot_FirstIsPrimary(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	date := monday.AddDays(1)
	f.register(t, date, 3)

	first := f.book(t, "member-a", date, 3)
	second := f.book(t, "member-b", date, 3)

	grid, err := f.svc.MaterializeWeek(ctx, coachID, monday)
	require.NoError(t, err)
	cell, ok := grid.Cell(date, 3)
	require.True(t, ok)
	require.Len(t, cell.Appointments, 2)
	assert.Equal(t, first.ID, cell.Appointments[0].ID)
	assert.Equal(t, second.ID, cell.Appointments[1].ID)
	require.NotNil(t, cell.Primary)
	assert.Equal(t, first.ID, cell.Primary.ID)
	assert.Equal(t, models.CellBooked, cell.State)

	_, err = f.svc.Transition(ctx, first.ID, "cancel")
	require.NoError(t, err)
	grid, err = f.svc.MaterializeWeek(ctx, coachID, monday)
	require.NoError(t, err)
	cell, _ = grid.Cell(date, 3)
	require.NotNil(t, cell.Primary)
	assert.Equal(t, second.ID, cell.Primary.ID)
}

func TestSlotCapacityOne_RejectsSecondBooking(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, monday, 1)

	first := f.book(t, "member-a", monday, 1)
	_, err := f.svc.CreateAppointment(ctx, CreateAppointmentInput{CoachID: coachID, MemberID: "member-b", Date: monday, TimeSlotID: 1})
	var full *SlotFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 1, full.Capacity)

	// Cancelling frees the slot.
	_, err = f.svc.Transition(ctx, first.ID, "cancel")
	require.NoError(t, err)
	_, err = f.svc.CreateAppointment(ctx, CreateAppointmentInput{CoachID: coachID, MemberID: "member-b", Date: monday, TimeSlotID: 1})
	assert.NoError(t, err)
}

func TestSlotCapacityOne_ConcurrentBookings(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, monday, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(ctx, CreateAppointmentInput{CoachID: coachID, MemberID: memberID, Date: monday, TimeSlotID: 1})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			var full *SlotFullError
			assert.ErrorAs(t, err, &full)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestLifecycleScenario(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)
	appt := f.book(t, memberID, monday, 1)

	confirmed, err := f.svc.Transition(ctx, appt.ID, "confirm")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	completed, err := f.svc.Transition(ctx, appt.ID, "complete")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	_, err = f.svc.Transition(ctx, appt.ID, "cancel")
	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, models.StatusCompleted, illegal.From)

	stored, err := f.svc.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestTransition_EveryPair(t *testing.T) {
	events := []string{"confirm", "cancel", "complete", "no-show"}
	// Walk each appointment into the starting status, then try each event.
	reach := map[models.AppointmentStatus][]string{
		models.StatusScheduled: nil,
		models.StatusConfirmed: {"confirm"},
		models.StatusCompleted: {"confirm", "complete"},
		models.StatusCancelled: {"cancel"},
		models.StatusMissed:    {"confirm", "no-show"},
	}

	for from, path := range reach {
		for _, event := range events {
			t.Run(string(from)+"/"+event, func(t *testing.T) {
				f := newFixture(t, 0)
				ctx := context.Background()
				f.register(t, monday, 1)
				appt := f.book(t, memberID, monday, 1)
				for _, step := range path {
					_, err := f.svc.Transition(ctx, appt.ID, step)
					require.NoError(t, err)
				}

				ev, _ := models.ParseEvent(event)
				want, legal := models.NextStatus(from, ev)
				got, err := f.svc.Transition(ctx, appt.ID, event)
				if legal {
					require.NoError(t, err)
					assert.Equal(t, want, got.Status)
					return
				}
				var illegal *IllegalTransitionError
				assert.ErrorAs(t, err, &illegal)
				if from.IsTerminal() {
					stored, _ := f.svc.GetAppointment(ctx, appt.ID)
					assert.Equal(t, from, stored.Status)
				}
			})
		}
	}
}

func TestTransition_UnknownEventAndMissing(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)
	appt := f.book(t, memberID, monday, 1)

	_, err := f.svc.Transition(ctx, appt.ID, "teleport")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.Transition(ctx, 9999, "confirm")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateAppointment(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	tuesday := monday.AddDays(1)
	f.register(t, monday, 1)
	f.register(t, tuesday, 2)
	appt := f.book(t, memberID, monday, 1)

	note := "bring the craving journal"
	updated, err := f.svc.UpdateAppointment(ctx, appt.ID, AppointmentPatch{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)

	// Reschedule onto an unregistered tuple is refused and leaves the record alone.
	slot3 := 3
	_, err = f.svc.UpdateAppointment(ctx, appt.ID, AppointmentPatch{Date: &tuesday, TimeSlotID: &slot3})
	var notReg *SlotNotRegisteredError
	require.ErrorAs(t, err, &notReg)

	slot2 := 2
	moved, err := f.svc.UpdateAppointment(ctx, appt.ID, AppointmentPatch{Date: &tuesday, TimeSlotID: &slot2})
	require.NoError(t, err)
	assert.Equal(t, tuesday, moved.Date)
	assert.Equal(t, 2, moved.TimeSlotID)
	assert.Equal(t, note, moved.Note)

	tooLong := 90
	_, err = f.svc.UpdateAppointment(ctx, appt.ID, AppointmentPatch{DurationMinutes: &tooLong})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.Transition(ctx, appt.ID, "cancel")
	require.NoError(t, err)
	_, err = f.svc.UpdateAppointment(ctx, appt.ID, AppointmentPatch{Note: &note})
	var immutable *ImmutableStateError
	require.ErrorAs(t, err, &immutable)
	assert.Equal(t, models.StatusCancelled, immutable.Status)
}

func TestUpdateAppointment_RescheduleRespectsCapacity(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	f.register(t, monday, 1, 2)
	a := f.book(t, "member-a", monday, 1)
	f.book(t, "member-b", monday, 2)

	slot2 := 2
	_, err := f.svc.UpdateAppointment(ctx, a.ID, AppointmentPatch{TimeSlotID: &slot2})
	var full *SlotFullError
	assert.ErrorAs(t, err, &full)

	// Touching other fields of a full slot's own occupant is fine.
	method := "IN_PERSON"
	_, err = f.svc.UpdateAppointment(ctx, a.ID, AppointmentPatch{Method: &method})
	assert.NoError(t, err)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.register(t, monday, 1)
	appt := f.book(t, memberID, monday, 1)
	_, err := f.svc.Transition(ctx, appt.ID, "cancel")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAppointment(ctx, appt.ID))

	_, err = f.svc.GetAppointment(ctx, appt.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.ErrorAs(t, f.svc.DeleteAppointment(ctx, appt.ID), &nf)
}
