package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	profileRepo "quitcoach/database/repository/profile"
	"quitcoach/middleware"
	"quitcoach/models"
	"quitcoach/services/scheduling"
	"quitcoach/utils"
)

// SchedulingHandler serves the time-slot, schedule and appointment endpoints.
type SchedulingHandler struct {
	Service  scheduling.SchedulingService
	Profiles profileRepo.ProfileDirectory
}

func NewSchedulingHandler(svc scheduling.SchedulingService, profiles profileRepo.ProfileDirectory) *SchedulingHandler {
	return &SchedulingHandler{Service: svc, Profiles: profiles}
}

// errForbidden is answered with 403 by respondError.
var errForbidden = errors.New("you do not have access to this resource")

// respondError maps domain errors onto HTTP statuses. notRegistered is the status
// used for SlotNotRegisteredError, which is a 404 when withdrawing and a 409 when booking.
func respondError(c *gin.Context, err error, notRegistered int) {
	var (
		validation  *scheduling.ValidationError
		pastDate    *scheduling.PastDateError
		unknownSlot *scheduling.UnknownSlotError
		notFound    *scheduling.NotFoundError
		notReg      *scheduling.SlotNotRegisteredError
		busy        *scheduling.SlotHasActiveBookingsError
		full        *scheduling.SlotFullError
		illegal     *scheduling.IllegalTransitionError
		immutable   *scheduling.ImmutableStateError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errForbidden):
		utils.JSONError(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
		return
	case errors.As(err, &validation), errors.As(err, &pastDate), errors.As(err, &unknownSlot):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &notReg):
		status = notRegistered
	case errors.As(err, &busy), errors.As(err, &full), errors.As(err, &illegal), errors.As(err, &immutable):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		getLogger(c).Error("Scheduling request failed", zap.Error(err))
		utils.JSONError(c, status, "INTERNAL_ERROR", "An unexpected error occurred. Please try again later.", nil)
		return
	}
	details := gin.H{}
	if validation != nil && validation.Field != "" {
		details["field"] = validation.Field
	}
	utils.JSONError(c, status, scheduling.ErrorCode(err), err.Error(), details)
}

func badRequest(c *gin.Context, field, message string) {
	utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", message, gin.H{"field": field})
}

func parseAppointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id", "appointment id must be a positive integer")
		return 0, false
	}
	return id, true
}

// canAccess reports whether the caller is a party to appt or an admin.
func canAccess(c *gin.Context, appt *models.Appointment) bool {
	switch middleware.CallerRole(c) {
	case models.RoleAdmin:
		return true
	case models.RoleCoach:
		return appt.CoachID == middleware.CallerID(c)
	case models.RoleMember:
		return appt.MemberID == middleware.CallerID(c)
	}
	return false
}
