package profileRepo

import (
	"context"
	"fmt"
	"sync"

	"quitcoach/database"
	"quitcoach/models"
)

// MemoryProfileDirectory is a ProfileDirectory backed by a map. Tests and the
// memory storage driver populate it with Put.
type MemoryProfileDirectory struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

var _ ProfileDirectory = (*MemoryProfileDirectory)(nil)

func NewMemoryProfileDirectory(profiles ...models.Profile) *MemoryProfileDirectory {
	d := &MemoryProfileDirectory{profiles: make(map[string]models.Profile)}
	for _, p := range profiles {
		d.Put(p)
	}
	return d
}

// Put adds or replaces a profile.
func (d *MemoryProfileDirectory) Put(p models.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
}

func (d *MemoryProfileDirectory) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, database.ErrNotFound)
	}
	return &p, nil
}

func (d *MemoryProfileDirectory) GetMany(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := d.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
