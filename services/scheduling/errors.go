package scheduling

import (
	"errors"
	"fmt"

	"quitcoach/models"
)

// CodedError is a domain error with a stable machine-readable code.
type CodedError interface {
	error
	Code() string
}

// ErrorCode returns the code of the first CodedError in err's chain, or "".
func ErrorCode(err error) string {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PastDateError rejects writes against a date before the owner's today.
type PastDateError struct {
	Date  models.Date
	Today models.Date
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("date %s is in the past (today is %s)", e.Date, e.Today)
}

func (e *PastDateError) Code() string { return "PAST_DATE" }

type UnknownSlotError struct {
	TimeSlotID int
}

func (e *UnknownSlotError) Error() string {
	return fmt.Sprintf("time slot %d does not exist", e.TimeSlotID)
}

func (e *UnknownSlotError) Code() string { return "UNKNOWN_TIME_SLOT" }

// SlotNotRegisteredError means the coach has not opened the (date, slot) tuple.
type SlotNotRegisteredError struct {
	CoachID    string
	Date       models.Date
	TimeSlotID int
}

func (e *SlotNotRegisteredError) Error() string {
	return fmt.Sprintf("coach %s has no availability on %s for time slot %d", e.CoachID, e.Date, e.TimeSlotID)
}

func (e *SlotNotRegisteredError) Code() string { return "SLOT_NOT_REGISTERED" }

type SlotHasActiveBookingsError struct {
	CoachID    string
	Date       models.Date
	TimeSlotID int
	Active     int
}

func (e *SlotHasActiveBookingsError) Error() string {
	return fmt.Sprintf("time slot %d on %s still has %d active appointment(s)", e.TimeSlotID, e.Date, e.Active)
}

func (e *SlotHasActiveBookingsError) Code() string { return "SLOT_HAS_ACTIVE_BOOKINGS" }

type SlotFullError struct {
	CoachID    string
	Date       models.Date
	TimeSlotID int
	Capacity   int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("time slot %d on %s is full (capacity %d)", e.TimeSlotID, e.Date, e.Capacity)
}

func (e *SlotFullError) Code() string { return "SLOT_FULL" }

type IllegalTransitionError struct {
	AppointmentID int64
	From          models.AppointmentStatus
	Event         models.AppointmentEvent
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("appointment %d: cannot %s from %s", e.AppointmentID, e.Event, e.From)
}

func (e *IllegalTransitionError) Code() string { return "ILLEGAL_TRANSITION" }

// ImmutableStateError rejects edits to an appointment in a terminal status.
type ImmutableStateError struct {
	AppointmentID int64
	Status        models.AppointmentStatus
}

func (e *ImmutableStateError) Error() string {
	return fmt.Sprintf("appointment %d is %s and can no longer be modified", e.AppointmentID, e.Status)
}

func (e *ImmutableStateError) Code() string { return "IMMUTABLE_STATE" }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Code() string { return "NOT_FOUND" }
