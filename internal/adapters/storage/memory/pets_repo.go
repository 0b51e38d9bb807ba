package memory

import (
	"context"
	"sort"
	"sync"

	"pet-registry/internal/domain/pets"
)

// petRepo es el storage por defecto (dev/tests): mapa protegido por RWMutex,
// ids seriales como haría Postgres.
type petRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[int64]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	r.byID[p.ID] = p
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// Orden estable por id asc (mismo orden que el serial de Postgres)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
