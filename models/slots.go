package models

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int `bson:"hour" json:"hour"`
	Minute int `bson:"minute" json:"minute"`
	Second int `bson:"second" json:"second"`
	Nano   int `bson:"nano" json:"nano"`
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nano)
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.duration() < o.duration()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeSlot is a catalog entry: a named time-of-day window shared by every coach.
type TimeSlot struct {
	ID        int       `bson:"id" json:"timeSlotId"`
	Label     string    `bson:"label" json:"label"`
	StartTime TimeOfDay `bson:"startTime" json:"startTime"`
	EndTime   TimeOfDay `bson:"endTime" json:"endTime"`
	Deleted   bool      `bson:"deleted" json:"deleted"`
}

// Validate checks the start < end invariant.
func (s TimeSlot) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("time slot id must be positive, got %d", s.ID)
	}
	if !s.StartTime.Before(s.EndTime) {
		return fmt.Errorf("time slot %d: start %s must be before end %s", s.ID, s.StartTime, s.EndTime)
	}
	return nil
}

// DurationMinutes is the length of the window.
func (s TimeSlot) DurationMinutes() int {
	return int((s.EndTime.duration() - s.StartTime.duration()) / time.Minute)
}

// DefaultLabel renders "08:00 - 09:00".
func (s TimeSlot) DefaultLabel() string {
	return s.StartTime.String() + " - " + s.EndTime.String()
}

// SetupSchedulesRequest is one entry of the registration payload.
type SetupSchedulesRequest struct {
	TimeSlotID   int    `json:"timeSlotId" binding:"required"`
	ScheduleDate string `json:"scheduleDate" binding:"required"`
}
