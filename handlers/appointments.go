package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quitcoach/middleware"
	"quitcoach/models"
	"quitcoach/services/scheduling"
	"quitcoach/utils"
)

// CreateAppointmentHandler books an appointment. Members book for themselves;
// coaches book a member into their own schedule.
func (h *SchedulingHandler) CreateAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid appointment request", zap.Error(err))
		badRequest(c, "body", "scheduleDate and timeSlotId are required")
		return
	}
	date, err := models.ParseDate(req.ScheduleDate)
	if err != nil {
		badRequest(c, "scheduleDate", "scheduleDate must be YYYY-MM-DD")
		return
	}

	callerID := middleware.CallerID(c)
	switch middleware.CallerRole(c) {
	case models.RoleMember:
		if req.MemberID != "" && req.MemberID != callerID {
			respondError(c, errForbidden, http.StatusConflict)
			return
		}
		req.MemberID = callerID
	case models.RoleCoach:
		if req.CoachID != "" && req.CoachID != callerID {
			respondError(c, errForbidden, http.StatusConflict)
			return
		}
		req.CoachID = callerID
	}

	appt, err := h.Service.CreateAppointment(ctx, scheduling.CreateAppointmentInput{
		CoachID:         req.CoachID,
		MemberID:        req.MemberID,
		Date:            date,
		TimeSlotID:      req.TimeSlotID,
		Method:          req.Method,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	})
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}

	resp, err := h.buildAppointmentResponse(ctx, appt)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Appointment booked", resp)
}

// loadAuthorized fetches the appointment named by :id and checks the caller may see it.
func (h *SchedulingHandler) loadAuthorized(c *gin.Context) (*models.Appointment, bool) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return nil, false
	}
	appt, err := h.Service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return nil, false
	}
	if !canAccess(c, appt) {
		respondError(c, errForbidden, http.StatusNotFound)
		return nil, false
	}
	return appt, true
}

func (h *SchedulingHandler) GetAppointmentHandler(c *gin.Context) {
	appt, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	resp, err := h.buildAppointmentResponse(c.Request.Context(), appt)
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Appointment retrieved", resp)
}

// UpdateAppointmentHandler applies a partial update to an open appointment.
func (h *SchedulingHandler) UpdateAppointmentHandler(c *gin.Context) {
	appt, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	var req models.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid update payload")
		return
	}
	patch := scheduling.AppointmentPatch{
		TimeSlotID:      req.TimeSlotID,
		Method:          req.Method,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	}
	if req.ScheduleDate != nil {
		date, err := models.ParseDate(*req.ScheduleDate)
		if err != nil {
			badRequest(c, "scheduleDate", "scheduleDate must be YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	updated, err := h.Service.UpdateAppointment(c.Request.Context(), appt.ID, patch)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	resp, err := h.buildAppointmentResponse(c.Request.Context(), updated)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Appointment updated", resp)
}

// TransitionAppointmentHandler applies a status event. Members may only cancel;
// confirming, completing and marking no-shows is up to the coach.
func (h *SchedulingHandler) TransitionAppointmentHandler(c *gin.Context) {
	appt, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "event", "event is required")
		return
	}
	if middleware.CallerRole(c) == models.RoleMember {
		if ev, err := models.ParseEvent(req.Event); err == nil && ev != models.EventCancel {
			respondError(c, errForbidden, http.StatusConflict)
			return
		}
	}

	updated, err := h.Service.Transition(c.Request.Context(), appt.ID, req.Event)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	resp, err := h.buildAppointmentResponse(c.Request.Context(), updated)
	if err != nil {
		respondError(c, err, http.StatusConflict)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Appointment "+strings.ToLower(string(updated.Status)), resp)
}

// DeleteAppointmentHandler hard-deletes an appointment. Admin only.
func (h *SchedulingHandler) DeleteAppointmentHandler(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	getLogger(c).Info("Appointment deleted by admin",
		zap.Int64("appointmentID", id), zap.String("adminID", middleware.CallerID(c)))
	utils.JSONSuccess(c, http.StatusOK, "Appointment deleted", gin.H{"appointmentId": id})
}

// CoachAppointmentsHandler lists the calling coach's appointments.
func (h *SchedulingHandler) CoachAppointmentsHandler(c *gin.Context) {
	h.listAppointments(c, models.RoleCoach)
}

// MemberAppointmentsHandler lists the calling member's appointments.
func (h *SchedulingHandler) MemberAppointmentsHandler(c *gin.Context) {
	h.listAppointments(c, models.RoleMember)
}

// listAppointments answers ?scope=all|today|upcoming with optional date and
// comma-separated status filters. A date narrows scope=all to that day.
func (h *SchedulingHandler) listAppointments(c *gin.Context, role models.Role) {
	ctx := c.Request.Context()
	ownerID := middleware.CallerID(c)

	var statuses []models.AppointmentStatus
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st, err := models.ParseStatus(part)
			if err != nil {
				badRequest(c, "status", err.Error())
				return
			}
			statuses = append(statuses, st)
		}
	}

	var (
		appts []models.Appointment
		err   error
	)
	scope := strings.ToLower(c.DefaultQuery("scope", "all"))
	switch scope {
	case "today":
		appts, err = h.Service.GetTodayAppointments(ctx, ownerID, role)
	case "upcoming":
		appts, err = h.Service.GetUpcomingAppointments(ctx, ownerID, role)
	case "all":
		q := scheduling.AppointmentQuery{Statuses: statuses}
		if raw := c.Query("date"); raw != "" {
			date, perr := models.ParseDate(raw)
			if perr != nil {
				badRequest(c, "date", "date must be YYYY-MM-DD")
				return
			}
			q.From, q.To = date, date
		}
		appts, err = h.Service.ListAppointments(ctx, ownerID, role, q)
	default:
		badRequest(c, "scope", "scope must be all, today or upcoming")
		return
	}
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	// scope=all already passed the statuses to the query.
	if scope != "all" && len(statuses) > 0 {
		appts = filterStatuses(appts, statuses)
	}

	resp, err := h.buildAppointmentResponses(ctx, appts)
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Appointments retrieved", resp)
}

func filterStatuses(appts []models.Appointment, statuses []models.AppointmentStatus) []models.Appointment {
	filter := models.AppointmentFilter{Statuses: statuses}
	out := appts[:0]
	for _, a := range appts {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}
