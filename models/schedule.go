package models

import "time"

// AvailabilitySlot marks a catalog slot as bookable for one coach on one date.
// Withdrawn slots stay stored so that a later registration reuses the same ID.
type AvailabilitySlot struct {
	ID          int64      `bson:"id" json:"scheduleId"`
	CoachID     string     `bson:"coachId" json:"coachId"`
	Date        Date       `bson:"date" json:"scheduleDate"`
	TimeSlotID  int        `bson:"timeSlotId" json:"timeSlotId"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	Withdrawn   bool       `bson:"withdrawn" json:"withdrawn"`
	WithdrawnAt *time.Time `bson:"withdrawnAt,omitempty" json:"withdrawnAt,omitempty"`
}

// SlotKey identifies a (date, slot) cell inside one coach's calendar.
type SlotKey struct {
	Date       Date
	TimeSlotID int
}

func (a AvailabilitySlot) Key() SlotKey {
	return SlotKey{Date: a.Date, TimeSlotID: a.TimeSlotID}
}

// WeekLength is the number of days in a week window.
const WeekLength = 7

// WeekWindow returns the seven dates starting at the Monday on or before start.
func WeekWindow(start Date) []Date {
	monday := start.Monday()
	days := make([]Date, WeekLength)
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}

// CellState is how a grid cell renders.
type CellState string

const (
	CellUnavailable CellState = "unavailable"
	CellAvailable   CellState = "available"
	CellBooked      CellState = "booked"
)

// ScheduleCell is one (date, slot) entry of a week grid.
type ScheduleCell struct {
	TimeSlot     TimeSlot          `json:"timeSlot"`
	Registered   bool              `json:"registered"`
	Schedule     *AvailabilitySlot `json:"schedule,omitempty"`
	State        CellState         `json:"state"`
	Appointments []Appointment     `json:"appointments"`
	Primary      *Appointment      `json:"primary,omitempty"`
}

// DaySchedule holds the cells of one date in catalog order.
type DaySchedule struct {
	Date  Date           `json:"date"`
	Cells []ScheduleCell `json:"cells"`
}

// WeekGrid is the materialized date x slot view of one coach's week.
type WeekGrid struct {
	CoachID   string        `json:"coachId"`
	WeekStart Date          `json:"weekStart"`
	Days      []DaySchedule `json:"days"`
}

// Cell looks up a cell by date and slot.
func (g *WeekGrid) Cell(date Date, timeSlotID int) (*ScheduleCell, bool) {
	for i := range g.Days {
		if g.Days[i].Date != date {
			continue
		}
		for j := range g.Days[i].Cells {
			if g.Days[i].Cells[j].TimeSlot.ID == timeSlotID {
				return &g.Days[i].Cells[j], true
			}
		}
	}
	return nil, false
}
