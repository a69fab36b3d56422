package profileRepo

import (
	"context"

	"quitcoach/models"
)

// ProfileDirectory resolves coach and member display profiles.
type ProfileDirectory interface {
	// GetByID retrieves a profile by its unique ID or returns database.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetMany retrieves the known profiles among ids, keyed by ID. Unknown IDs are skipped.
	GetMany(ctx context.Context, ids []string) (map[string]models.Profile, error)
}
