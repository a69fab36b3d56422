package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quitcoach/middleware"
	"quitcoach/models"
	"quitcoach/utils"
)

// ListTimeSlotsHandler returns the time slot catalog.
func (h *SchedulingHandler) ListTimeSlotsHandler(c *gin.Context) {
	slots, err := h.Service.ListTimeSlots(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Time slots retrieved", slots)
}

// SetupSchedulesHandler registers the calling coach's availability from an array
// of {timeSlotId, scheduleDate} entries.
func (h *SchedulingHandler) SetupSchedulesHandler(c *gin.Context) {
	logger := getLogger(c)
	coachID := middleware.CallerID(c)

	var req []models.SetupSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid schedule setup request", zap.Error(err))
		badRequest(c, "body", "expected an array of {timeSlotId, scheduleDate}")
		return
	}

	created, err := h.Service.RegisterBatch(c.Request.Context(), coachID, req)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	if created == nil {
		created = []models.AvailabilitySlot{}
	}
	utils.JSONSuccess(c, http.StatusCreated, "Schedules registered", created)
}

// WithdrawScheduleHandler closes one of the calling coach's availability slots.
func (h *SchedulingHandler) WithdrawScheduleHandler(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "date", "date must be YYYY-MM-DD")
		return
	}
	timeSlotID, err := strconv.Atoi(c.Param("timeSlotId"))
	if err != nil {
		badRequest(c, "timeSlotId", "timeSlotId must be an integer")
		return
	}

	if err := h.Service.WithdrawSlot(c.Request.Context(), middleware.CallerID(c), date, timeSlotID); err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Schedule withdrawn", gin.H{
		"scheduleDate": date,
		"timeSlotId":   timeSlotID,
	})
}

// GetWeekHandler returns a coach's materialized week. coachId defaults to the
// caller when the caller is a coach; weekStart defaults to the current week.
func (h *SchedulingHandler) GetWeekHandler(c *gin.Context) {
	ctx := c.Request.Context()

	coachID := c.Query("coachId")
	if coachID == "" {
		if middleware.CallerRole(c) != models.RoleCoach {
			badRequest(c, "coachId", "coachId is required")
			return
		}
		coachID = middleware.CallerID(c)
	}

	var weekStart models.Date
	if raw := c.Query("weekStart"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			badRequest(c, "weekStart", "weekStart must be YYYY-MM-DD")
			return
		}
		weekStart = d
	} else {
		today, err := h.Service.Today(ctx, coachID)
		if err != nil {
			respondError(c, err, http.StatusNotFound)
			return
		}
		weekStart = today
	}

	grid, err := h.Service.MaterializeWeek(ctx, coachID, weekStart)
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Week schedule retrieved", redactWeek(c, grid))
}

// redactWeek hides other members' appointments from callers who are neither the
// grid's coach nor an admin. Cell state is kept so the grid still shows which
// slots are taken; only the caller's own appointments remain listed.
func redactWeek(c *gin.Context, grid *models.WeekGrid) *models.WeekGrid {
	callerID := middleware.CallerID(c)
	switch middleware.CallerRole(c) {
	case models.RoleAdmin:
		return grid
	case models.RoleCoach:
		if grid.CoachID == callerID {
			return grid
		}
	}

	out := *grid
	out.Days = make([]models.DaySchedule, len(grid.Days))
	for i, day := range grid.Days {
		cells := make([]models.ScheduleCell, len(day.Cells))
		for j, cell := range day.Cells {
			own := []models.Appointment{}
			var primary *models.Appointment
			for _, a := range cell.Appointments {
				if a.MemberID != callerID {
					continue
				}
				own = append(own, a)
				if cell.Primary != nil && cell.Primary.ID == a.ID {
					p := a
					primary = &p
				}
			}
			cell.Appointments = own
			cell.Primary = primary
			cells[j] = cell
		}
		out.Days[i] = models.DaySchedule{Date: day.Date, Cells: cells}
	}
	return &out
}
