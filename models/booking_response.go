// models/booking_response.go
package models

import "time"

// MemberRef is the member block of an appointment response.
type MemberRef struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CoachRef is the coach block of an appointment response.
type CoachRef struct {
	CoachID  string `json:"coachId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// CoachScheduleRef describes the availability slot an appointment is bound to.
type CoachScheduleRef struct {
	ScheduleID   int64    `json:"scheduleId"`
	Coach        CoachRef `json:"coach"`
	TimeSlot     TimeSlot `json:"timeSlot"`
	ScheduleDate Date     `json:"scheduleDate"`
	Booked       bool     `json:"booked"`
}

// AppointmentResponse is the appointment shape returned by the list endpoints.
type AppointmentResponse struct {
	AppointmentID   int64             `json:"appointmentId"`
	Member          MemberRef         `json:"member"`
	CoachSchedule   CoachScheduleRef  `json:"coachSchedule"`
	Status          AppointmentStatus `json:"status"`
	Method          AppointmentMethod `json:"method"`
	DurationMinutes int               `json:"durationMinutes"`
	Note            string            `json:"note"`
	BookingTime     time.Time         `json:"bookingTime"`
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	CoachID         string `json:"coachId"`
	MemberID        string `json:"memberId"`
	ScheduleDate    string `json:"scheduleDate" binding:"required"`
	TimeSlotID      int    `json:"timeSlotId" binding:"required"`
	Method          string `json:"method"`
	DurationMinutes int    `json:"durationMinutes"`
	Note            string `json:"note"`
}

// UpdateAppointmentRequest is a partial update; nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	ScheduleDate    *string `json:"scheduleDate"`
	TimeSlotID      *int    `json:"timeSlotId"`
	Method          *string `json:"method"`
	DurationMinutes *int    `json:"durationMinutes"`
	Note            *string `json:"note"`
}

// TransitionRequest carries a status event such as "confirm".
type TransitionRequest struct {
	Event string `json:"event" binding:"required"`
}
