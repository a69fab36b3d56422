// File: database/repository/profile/queries.go
package profileRepo

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

// MongoProfileDirectory reads profiles from the shared users collection.
type MongoProfileDirectory struct {
	coll *mongo.Collection
}

var _ ProfileDirectory = (*MongoProfileDirectory)(nil)

// profileProjection keeps credentials and unrelated account data out of reads.
var profileProjection = bson.M{
	"id":       1,
	"username": 1,
	"email":    1,
	"fullName": 1,
	"role":     1,
	"timeZone": 1,
}

// NewMongoProfileDirectory creates a ProfileDirectory over db's users collection.
func NewMongoProfileDirectory(db *mongo.Database) *MongoProfileDirectory {
	return &MongoProfileDirectory{coll: db.Collection("users")}
}

func (r *MongoProfileDirectory) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(profileProjection)
	var p models.Profile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch profile with id %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoProfileDirectory) GetMany(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(profileProjection)
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}
