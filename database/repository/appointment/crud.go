// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quitcoach/database"
	"quitcoach/models"
)

type mongoAppointmentRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

var _ AppointmentRepository = (*mongoAppointmentRepo)(nil)

// NewMongoAppointmentRepo constructs a MongoDB AppointmentRepository and ensures its indexes.
func NewMongoAppointmentRepo(ctx context.Context, db *mongo.Database) (AppointmentRepository, error) {
	repo := &mongoAppointmentRepo{
		db:   db,
		coll: db.Collection("appointments"),
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new appointment document.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := database.NextSequence(ctx, r.db, "appointments")
	if err != nil {
		return err
	}
	appt.ID = id

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("error creating appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment %d: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching appointment %d: %w", id, err)
	}
	return &appt, nil
}

// Update replaces an existing appointment document.
func (r *mongoAppointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": appt.ID}, appt)
	if err != nil {
		return fmt.Errorf("error updating appointment %d: %w", appt.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %d: %w", appt.ID, database.ErrNotFound)
	}
	return nil
}

// Delete removes an appointment document.
func (r *mongoAppointmentRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting appointment %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("appointment %d: %w", id, database.ErrNotFound)
	}
	return nil
}
