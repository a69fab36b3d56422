package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quitcoach/database/repository"
	"quitcoach/handlers"
	"quitcoach/models"
	"quitcoach/services/scheduling"
	"quitcoach/utils"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type envelope struct {
	Status    int             `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"errorCode"`
}

type apiFixture struct {
	router  *gin.Engine
	coachID string
	member  string
	admin   string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slots, err := repository.ParseCatalog([]string{"08:00-09:00", "09:00-10:00"})
	require.NoError(t, err)
	catalog, err := repository.NewStaticCatalog(slots)
	require.NoError(t, err)

	f := &apiFixture{coachID: uuid.NewString(), member: uuid.NewString(), admin: uuid.NewString()}
	profiles := repository.NewMemoryProfileDirectory(
		models.Profile{ID: f.coachID, Username: "coach.kim", Email: "kim@example.com", FullName: "Kim Park", Role: models.RoleCoach},
		models.Profile{ID: f.member, Username: "sam", Email: "sam@example.com", Role: models.RoleMember},
	)

	svc, err := scheduling.New(context.Background(), scheduling.Options{
		Catalog:      catalog,
		Availability: repository.NewMemoryAvailabilityRepo(),
		Appointments: repository.NewMemoryAppointmentRepo(),
		Clock:        fixedClock{now: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)},
		Zones:        scheduling.StaticZones{Default: time.UTC},
		Logger:       zap.NewNop(),
	})
	require.NoError(t, err)

	f.router = gin.New()
	RegisterRoutes(f.router, handlers.NewHandlerBundle(handlers.NewSchedulingHandler(svc, profiles)))
	return f
}

func (f *apiFixture) token(t *testing.T, id string, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(id, string(role), "", time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func TestAPI_BookingFlow(t *testing.T) {
	f := newAPIFixture(t)
	coach := f.token(t, f.coachID, models.RoleCoach)
	member := f.token(t, f.member, models.RoleMember)
	admin := f.token(t, f.admin, models.RoleAdmin)

	code, _ := f.do(t, http.MethodGet, "/api/time-slots", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := f.do(t, http.MethodGet, "/api/time-slots", member, nil)
	require.Equal(t, http.StatusOK, code)
	var slots []models.TimeSlot
	require.NoError(t, json.Unmarshal(env.Data, &slots))
	assert.Len(t, slots, 2)

	// Registration
	code, env = f.do(t, http.MethodPost, "/api/schedules", coach, []models.SetupSchedulesRequest{
		{TimeSlotID: 1, ScheduleDate: "2025-06-17"},
		{TimeSlotID: 2, ScheduleDate: "2025-06-17"},
	})
	require.Equal(t, http.StatusCreated, code)
	var created []models.AvailabilitySlot
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, created, 2)

	code, env = f.do(t, http.MethodPost, "/api/schedules", coach, []models.SetupSchedulesRequest{{TimeSlotID: 1, ScheduleDate: "2025-06-01"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PAST_DATE", env.ErrorCode)

	code, _ = f.do(t, http.MethodPost, "/api/schedules", member, []models.SetupSchedulesRequest{{TimeSlotID: 1, ScheduleDate: "2025-06-17"}})
	assert.Equal(t, http.StatusForbidden, code)

	// Booking
	code, env = f.do(t, http.MethodPost, "/api/appointments", member, models.CreateAppointmentRequest{
		CoachID: f.coachID, ScheduleDate: "2025-06-18", TimeSlotID: 1,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_NOT_REGISTERED", env.ErrorCode)

	code, env = f.do(t, http.MethodPost, "/api/appointments", member, models.CreateAppointmentRequest{
		CoachID: f.coachID, ScheduleDate: "2025-06-17", TimeSlotID: 1, Note: "first session",
	})
	require.Equal(t, http.StatusCreated, code)
	var appt models.AppointmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &appt))
	assert.Equal(t, f.member, appt.Member.UserID)
	assert.Equal(t, "sam", appt.Member.Username)
	assert.Equal(t, "Kim Park", appt.CoachSchedule.Coach.FullName)
	assert.Equal(t, created[0].ID, appt.CoachSchedule.ScheduleID)
	assert.True(t, appt.CoachSchedule.Booked)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, "08:00 - 09:00", appt.CoachSchedule.TimeSlot.Label)

	id := appt.AppointmentID
	path := "/api/appointments/" + jsonInt(id)

	// Withdrawal refused while booked; unknown tuple is a 404.
	code, env = f.do(t, http.MethodDelete, "/api/schedules/2025-06-17/1", coach, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_HAS_ACTIVE_BOOKINGS", env.ErrorCode)
	code, _ = f.do(t, http.MethodDelete, "/api/schedules/2025-06-20/1", coach, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodDelete, "/api/schedules/2025-06-17/2", coach, nil)
	assert.Equal(t, http.StatusOK, code)

	// Listing
	code, env = f.do(t, http.MethodGet, "/api/appointments/coach-appointments?scope=upcoming", coach, nil)
	require.Equal(t, http.StatusOK, code)
	var list []models.AppointmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = f.do(t, http.MethodGet, "/api/appointments/member-appointments?scope=today", member, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	code, _ = f.do(t, http.MethodGet, "/api/appointments/member-appointments", coach, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = f.do(t, http.MethodGet, "/api/appointments/coach-appointments?scope=later", coach, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// Transitions
	code, _ = f.do(t, http.MethodPost, path+"/status", member, models.TransitionRequest{Event: "confirm"})
	assert.Equal(t, http.StatusForbidden, code)
	code, env = f.do(t, http.MethodPost, path+"/status", coach, models.TransitionRequest{Event: "teleport"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
	code, _ = f.do(t, http.MethodPost, path+"/status", coach, models.TransitionRequest{Event: "confirm"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, path+"/status", coach, models.TransitionRequest{Event: "complete"})
	assert.Equal(t, http.StatusOK, code)
	code, env = f.do(t, http.MethodPost, path+"/status", coach, models.TransitionRequest{Event: "cancel"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ILLEGAL_TRANSITION", env.ErrorCode)

	note := "late edit"
	code, env = f.do(t, http.MethodPatch, path, coach, models.UpdateAppointmentRequest{Note: &note})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "IMMUTABLE_STATE", env.ErrorCode)

	// Strangers cannot read it; admins can delete it.
	stranger := f.token(t, uuid.NewString(), models.RoleMember)
	code, _ = f.do(t, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = f.do(t, http.MethodDelete, path, coach, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = f.do(t, http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = f.do(t, http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)
}

func TestAPI_WeekGrid(t *testing.T) {
	f := newAPIFixture(t)
	coach := f.token(t, f.coachID, models.RoleCoach)
	member := f.token(t, f.member, models.RoleMember)

	code, _ := f.do(t, http.MethodPost, "/api/schedules", coach, []models.SetupSchedulesRequest{{TimeSlotID: 2, ScheduleDate: "2025-06-19"}})
	require.Equal(t, http.StatusCreated, code)

	code, env := f.do(t, http.MethodGet, "/api/schedules/week", coach, nil)
	require.Equal(t, http.StatusOK, code)
	var grid models.WeekGrid
	require.NoError(t, json.Unmarshal(env.Data, &grid))
	assert.Equal(t, models.MustParseDate("2025-06-16"), grid.WeekStart)
	require.Len(t, grid.Days, 7)
	assert.Equal(t, models.CellAvailable, grid.Days[3].Cells[1].State)
	assert.Equal(t, models.CellUnavailable, grid.Days[3].Cells[0].State)

	code, _ = f.do(t, http.MethodGet, "/api/schedules/week", member, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, env = f.do(t, http.MethodGet, "/api/schedules/week?coachId="+f.coachID+"&weekStart=2025-06-22", member, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &grid))
	assert.Equal(t, models.MustParseDate("2025-06-16"), grid.WeekStart)
}

func TestAPI_WeekGridHidesOtherMembersAppointments(t *testing.T) {
	f := newAPIFixture(t)
	coach := f.token(t, f.coachID, models.RoleCoach)
	member := f.token(t, f.member, models.RoleMember)

	code, _ := f.do(t, http.MethodPost, "/api/schedules", coach, []models.SetupSchedulesRequest{{TimeSlotID: 1, ScheduleDate: "2025-06-17"}})
	require.Equal(t, http.StatusCreated, code)
	code, _ = f.do(t, http.MethodPost, "/api/appointments", member, models.CreateAppointmentRequest{
		CoachID: f.coachID, ScheduleDate: "2025-06-17", TimeSlotID: 1, Note: "relapsed twice this week",
	})
	require.Equal(t, http.StatusCreated, code)

	path := "/api/schedules/week?coachId=" + f.coachID + "&weekStart=2025-06-16"
	cell := func(token string) models.ScheduleCell {
		t.Helper()
		code, env := f.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, code)
		var grid models.WeekGrid
		require.NoError(t, json.Unmarshal(env.Data, &grid))
		require.Len(t, grid.Days, 7)
		return grid.Days[1].Cells[0]
	}

	other := cell(f.token(t, uuid.NewString(), models.RoleMember))
	assert.Equal(t, models.CellBooked, other.State)
	assert.True(t, other.Registered)
	assert.Empty(t, other.Appointments)
	assert.Nil(t, other.Primary)

	otherCoach := cell(f.token(t, uuid.NewString(), models.RoleCoach))
	assert.Equal(t, models.CellBooked, otherCoach.State)
	assert.Empty(t, otherCoach.Appointments)

	own := cell(member)
	require.Len(t, own.Appointments, 1)
	assert.Equal(t, f.member, own.Appointments[0].MemberID)
	require.NotNil(t, own.Primary)
	assert.Equal(t, own.Appointments[0].ID, own.Primary.ID)

	for _, token := range []string{coach, f.token(t, f.admin, models.RoleAdmin)} {
		full := cell(token)
		require.Len(t, full.Appointments, 1)
		assert.Equal(t, "relapsed twice this week", full.Appointments[0].Note)
	}
}

func TestAPI_ListAppointmentsStatusFilter(t *testing.T) {
	f := newAPIFixture(t)
	coach := f.token(t, f.coachID, models.RoleCoach)
	member := f.token(t, f.member, models.RoleMember)

	code, _ := f.do(t, http.MethodPost, "/api/schedules", coach, []models.SetupSchedulesRequest{
		{TimeSlotID: 1, ScheduleDate: "2025-06-17"},
		{TimeSlotID: 2, ScheduleDate: "2025-06-17"},
	})
	require.Equal(t, http.StatusCreated, code)

	var ids []int64
	for _, slot := range []int{1, 2} {
		code, env := f.do(t, http.MethodPost, "/api/appointments", member, models.CreateAppointmentRequest{
			CoachID: f.coachID, ScheduleDate: "2025-06-17", TimeSlotID: slot,
		})
		require.Equal(t, http.StatusCreated, code)
		var appt models.AppointmentResponse
		require.NoError(t, json.Unmarshal(env.Data, &appt))
		ids = append(ids, appt.AppointmentID)
	}
	code, _ = f.do(t, http.MethodPost, "/api/appointments/"+jsonInt(ids[1])+"/status", member, models.TransitionRequest{Event: "cancel"})
	require.Equal(t, http.StatusOK, code)

	list := func(query string) []models.AppointmentResponse {
		t.Helper()
		code, env := f.do(t, http.MethodGet, "/api/appointments/coach-appointments?"+query, coach, nil)
		require.Equal(t, http.StatusOK, code)
		var out []models.AppointmentResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		return out
	}

	assert.Len(t, list("scope=all"), 2)
	cancelled := list("scope=all&status=cancelled")
	require.Len(t, cancelled, 1)
	assert.Equal(t, ids[1], cancelled[0].AppointmentID)

	assert.Len(t, list("scope=upcoming"), 2)
	scheduled := list("scope=upcoming&status=SCHEDULED")
	require.Len(t, scheduled, 1)
	assert.Equal(t, ids[0], scheduled[0].AppointmentID)
	assert.Empty(t, list("scope=today&status=SCHEDULED"))
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)
	code, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quitcoach_")
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
