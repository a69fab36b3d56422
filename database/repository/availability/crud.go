// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quitcoach/database"
	"quitcoach/models"
)

type mongoAvailabilityRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

var _ AvailabilityRepository = (*mongoAvailabilityRepo)(nil)

// NewMongoAvailabilityRepo constructs a MongoDB AvailabilityRepository and ensures its indexes.
func NewMongoAvailabilityRepo(ctx context.Context, db *mongo.Database) (AvailabilityRepository, error) {
	repo := &mongoAvailabilityRepo{
		db:   db,
		coll: db.Collection("coach_schedules"),
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func tupleFilter(coachID string, date models.Date, timeSlotID int) bson.M {
	return bson.M{"coachId": coachID, "date": date.String(), "timeSlotId": timeSlotID}
}

func (r *mongoAvailabilityRepo) Register(ctx context.Context, slot *models.AvailabilitySlot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := tupleFilter(slot.CoachID, slot.Date, slot.TimeSlotID)

	var existing models.AvailabilitySlot
	err := r.coll.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil && !existing.Withdrawn:
		*slot = existing
		return false, nil
	case err == nil:
		update := bson.M{
			"$set":   bson.M{"withdrawn": false},
			"$unset": bson.M{"withdrawnAt": ""},
		}
		res, err := r.coll.UpdateOne(ctx, bson.M{"id": existing.ID, "withdrawn": true}, update)
		if err != nil {
			return false, fmt.Errorf("failed to reactivate schedule %d: %w", existing.ID, err)
		}
		existing.Withdrawn = false
		existing.WithdrawnAt = nil
		*slot = existing
		// Another writer reactivated it first.
		return res.ModifiedCount > 0, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return false, fmt.Errorf("failed to look up schedule: %w", err)
	}

	id, err := database.NextSequence(ctx, r.db, "coach_schedules")
	if err != nil {
		return false, err
	}
	slot.ID = id
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	slot.Withdrawn = false
	slot.WithdrawnAt = nil

	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race on the unique tuple index: the tuple is open either way.
			if err := r.coll.FindOne(ctx, filter).Decode(slot); err != nil {
				return false, fmt.Errorf("failed to reload schedule after conflict: %w", err)
			}
			return false, nil
		}
		return false, fmt.Errorf("failed to insert schedule: %w", err)
	}
	return true, nil
}

func (r *mongoAvailabilityRepo) Get(ctx context.Context, coachID string, date models.Date, timeSlotID int) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := tupleFilter(coachID, date, timeSlotID)
	filter["withdrawn"] = false

	var slot models.AvailabilitySlot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("availability %s/%s/%d: %w", coachID, date, timeSlotID, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &slot, nil
}

func (r *mongoAvailabilityRepo) Withdraw(ctx context.Context, coachID string, date models.Date, timeSlotID int, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := tupleFilter(coachID, date, timeSlotID)
	filter["withdrawn"] = false

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"withdrawn": true, "withdrawnAt": at}})
	if err != nil {
		return fmt.Errorf("failed to withdraw schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("availability %s/%s/%d: %w", coachID, date, timeSlotID, database.ErrNotFound)
	}
	return nil
}

func (r *mongoAvailabilityRepo) ListRange(ctx context.Context, coachID string, from, to models.Date) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"coachId":   coachID,
		"withdrawn": false,
		"date":      bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeSlotId", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return slots, nil
}
