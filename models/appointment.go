package models

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusMissed    AppointmentStatus = "MISSED" // no-show
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusMissed}

// ParseStatus accepts the wire names case-insensitively, plus "NO-SHOW" for MISSED.
func ParseStatus(s string) (AppointmentStatus, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "NO-SHOW" || up == "NO_SHOW" {
		return StatusMissed, nil
	}
	for _, st := range AllStatuses {
		if string(st) == up {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// IsTerminal reports whether no further transition can leave the status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusMissed
}

// IsActive reports whether the appointment still holds its slot.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// AppointmentEvent drives a status transition.
type AppointmentEvent string

const (
	EventConfirm  AppointmentEvent = "confirm"
	EventCancel   AppointmentEvent = "cancel"
	EventComplete AppointmentEvent = "complete"
	EventNoShow   AppointmentEvent = "no-show"
)

// ParseEvent normalizes an event name.
func ParseEvent(s string) (AppointmentEvent, error) {
	switch ev := AppointmentEvent(strings.ToLower(strings.TrimSpace(s))); ev {
	case EventConfirm, EventCancel, EventComplete, EventNoShow:
		return ev, nil
	case "noshow", "no_show", "miss", "missed":
		return EventNoShow, nil
	}
	return "", fmt.Errorf("unknown appointment event %q", s)
}

type transitionKey struct {
	from  AppointmentStatus
	event AppointmentEvent
}

var transitions = map[transitionKey]AppointmentStatus{
	{StatusScheduled, EventConfirm}:  StatusConfirmed,
	{StatusScheduled, EventCancel}:   StatusCancelled,
	{StatusConfirmed, EventCancel}:   StatusCancelled,
	{StatusConfirmed, EventComplete}: StatusCompleted,
	{StatusConfirmed, EventNoShow}:   StatusMissed,
}

// NextStatus returns the status reached by applying event to from.
// ok is false when the transition is not part of the lifecycle.
func NextStatus(from AppointmentStatus, event AppointmentEvent) (to AppointmentStatus, ok bool) {
	to, ok = transitions[transitionKey{from, event}]
	return to, ok
}

// AppointmentMethod is how the session takes place.
type AppointmentMethod string

const (
	MethodRemote   AppointmentMethod = "REMOTE"
	MethodInPerson AppointmentMethod = "IN_PERSON"
)

// ParseMethod defaults an empty method to REMOTE.
func ParseMethod(s string) (AppointmentMethod, error) {
	switch up := strings.ToUpper(strings.TrimSpace(s)); up {
	case "":
		return MethodRemote, nil
	case string(MethodRemote), "ONLINE":
		return MethodRemote, nil
	case string(MethodInPerson), "IN-PERSON", "OFFLINE":
		return MethodInPerson, nil
	}
	return "", fmt.Errorf("unknown appointment method %q", s)
}

// Appointment is a member's reservation against a coach's availability slot.
type Appointment struct {
	ID              int64             `bson:"id" json:"appointmentId"`
	CoachID         string            `bson:"coachId" json:"coachId"`
	MemberID        string            `bson:"memberId" json:"memberId"`
	Date            Date              `bson:"date" json:"date"`
	TimeSlotID      int               `bson:"timeSlotId" json:"timeSlotId"`
	Method          AppointmentMethod `bson:"method" json:"method"`
	DurationMinutes int               `bson:"durationMinutes" json:"durationMinutes"`
	Note            string            `bson:"note,omitempty" json:"note"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Role selects which side of an appointment a query is about.
type Role string

const (
	RoleCoach  Role = "coach"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// AppointmentFilter narrows repository listings. Zero fields are unbounded.
type AppointmentFilter struct {
	CoachID    string
	MemberID   string
	TimeSlotID int
	From       Date // inclusive
	To         Date // inclusive
	Statuses   []AppointmentStatus
}

// ForOwner builds a filter on the coach or member side.
func ForOwner(role Role, ownerID string) AppointmentFilter {
	if role == RoleMember {
		return AppointmentFilter{MemberID: ownerID}
	}
	return AppointmentFilter{CoachID: ownerID}
}

// Matches applies the filter in memory.
func (f AppointmentFilter) Matches(a Appointment) bool {
	if f.CoachID != "" && a.CoachID != f.CoachID {
		return false
	}
	if f.MemberID != "" && a.MemberID != f.MemberID {
		return false
	}
	if f.TimeSlotID != 0 && a.TimeSlotID != f.TimeSlotID {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To) {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if a.Status == s {
				return true
			}
		}
		return false
	}
	return true
}
