package historique

import (
	"context"
	"sort"
	"sync"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, e Entry) (Entry, error)
	Query(ctx context.Context, f Filter) ([]Entry, error)
}

// InMemoryRepository keeps entries in insertion order; used by tests and
// STORE=memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Append(_ context.Context, e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) Query(_ context.Context, f Filter) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if f.Action != "" && string(e.Action) != f.Action {
			continue
		}
		if f.Kind != "" && (e.Kind == nil || string(*e.Kind) != f.Kind) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Entries returns a copy of everything appended so far, oldest first.
func (r *InMemoryRepository) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
