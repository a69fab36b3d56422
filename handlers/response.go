package handlers

import (
	"context"
	"fmt"

	"quitcoach/models"
)

type weekRef struct {
	coachID string
	monday  models.Date
}

// buildAppointmentResponses attaches member, coach, time slot and schedule details
// to appts. Missing profiles render as ID-only blocks.
func (h *SchedulingHandler) buildAppointmentResponses(ctx context.Context, appts []models.Appointment) ([]models.AppointmentResponse, error) {
	out := make([]models.AppointmentResponse, 0, len(appts))
	if len(appts) == 0 {
		return out, nil
	}

	catalog, err := h.Service.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	slots := make(map[int]models.TimeSlot, len(catalog))
	for _, ts := range catalog {
		slots[ts.ID] = ts
	}

	seen := make(map[string]bool)
	var ids []string
	weeks := make(map[weekRef]*models.WeekGrid)
	for _, a := range appts {
		for _, id := range []string{a.CoachID, a.MemberID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		weeks[weekRef{a.CoachID, a.Date.Monday()}] = nil
	}

	profiles, err := h.Profiles.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	for ref := range weeks {
		grid, err := h.Service.MaterializeWeek(ctx, ref.coachID, ref.monday)
		if err != nil {
			return nil, err
		}
		weeks[ref] = grid
	}

	for _, a := range appts {
		member := profiles[a.MemberID]
		coach := profiles[a.CoachID]
		schedule := models.CoachScheduleRef{
			Coach: models.CoachRef{
				CoachID:  a.CoachID,
				Username: coach.Username,
				Email:    coach.Email,
				FullName: coach.FullName,
			},
			TimeSlot:     slots[a.TimeSlotID],
			ScheduleDate: a.Date,
		}
		if cell, ok := weeks[weekRef{a.CoachID, a.Date.Monday()}].Cell(a.Date, a.TimeSlotID); ok {
			if cell.Schedule != nil {
				schedule.ScheduleID = cell.Schedule.ID
			}
			schedule.Booked = cell.State == models.CellBooked
		}

		out = append(out, models.AppointmentResponse{
			AppointmentID: a.ID,
			Member: models.MemberRef{
				UserID:   a.MemberID,
				Username: member.Username,
				Email:    member.Email,
			},
			CoachSchedule:   schedule,
			Status:          a.Status,
			Method:          a.Method,
			DurationMinutes: a.DurationMinutes,
			Note:            a.Note,
			BookingTime:     a.CreatedAt,
		})
	}
	return out, nil
}

func (h *SchedulingHandler) buildAppointmentResponse(ctx context.Context, appt *models.Appointment) (*models.AppointmentResponse, error) {
	out, err := h.buildAppointmentResponses(ctx, []models.Appointment{*appt})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}
