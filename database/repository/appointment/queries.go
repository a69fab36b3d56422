// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quitcoach/models"
)

// buildFilter translates an AppointmentFilter into a Mongo query. Dates are stored
// as YYYY-MM-DD strings, so string range operators order them correctly.
func buildFilter(f models.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.CoachID != "" {
		filter["coachId"] = f.CoachID
	}
	if f.MemberID != "" {
		filter["memberId"] = f.MemberID
	}
	if f.TimeSlotID != 0 {
		filter["timeSlotId"] = f.TimeSlotID
	}
	dateRange := bson.M{}
	if !f.From.IsZero() {
		dateRange["$gte"] = f.From.String()
	}
	if !f.To.IsZero() {
		dateRange["$lte"] = f.To.String()
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	if len(f.Statuses) > 0 {
		statuses := make(bson.A, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	return filter
}

// List returns appointments matching the filter.
func (r *mongoAppointmentRepo) List(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "id", Value: 1},
	})
	cursor, err := r.coll.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
