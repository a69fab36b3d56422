// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quitcoach/models"
)

// LoadMongoCatalog reads the "timeslots" collection once and freezes it. When the
// collection is empty and seed is non-empty, seed is inserted first.
func LoadMongoCatalog(ctx context.Context, db *mongo.Database, seed []models.TimeSlot) (TimeSlotCatalog, error) {
	coll := db.Collection("timeslots")
	if err := ensureIndexes(ctx, coll); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count timeslots: %w", err)
	}
	if count == 0 && len(seed) > 0 {
		docs := make([]interface{}, len(seed))
		for i, slot := range seed {
			docs[i] = slot
		}
		if _, err := coll.InsertMany(ctx, docs, &options.InsertManyOptions{Ordered: boolPtr(true)}); err != nil {
			return nil, fmt.Errorf("failed to seed timeslots: %w", err)
		}
	}

	cursor, err := coll.Find(ctx, bson.M{"deleted": bson.M{"$ne": true}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return NewStaticCatalog(slots)
}

func boolPtr(b bool) *bool { return &b }
