package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"salva-mascotas/internal/domain/pets"
)

type petsRepo struct {
	mu        sync.RWMutex
	lostByID  map[string]pets.LostPet
	foundByID map[string]pets.FoundPet
}

func NewPetsRepo() pets.Repository {
	return &petsRepo{
		lostByID:  make(map[string]pets.LostPet),
		foundByID: make(map[string]pets.FoundPet),
	}
}

func (r *petsRepo) CreateLost(ctx context.Context, p pets.LostPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("lost pet id required")
	}
	if _, exists := r.lostByID[p.ID]; exists {
		return errors.New("lost pet already exists")
	}
	r.lostByID[p.ID] = p
	return nil
}

func (r *petsRepo) GetLostByID(ctx context.Context, id string) (pets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.lostByID[id]
	if !ok {
		return pets.LostPet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListLost(ctx context.Context, limit int) ([]pets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.LostPet, 0, len(r.lostByID))
	for _, p := range r.lostByID {
		out = append(out, p)
	}

	// last_seen_date desc; los más recientes entran primero a la ventana
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeenDate.After(out[j].LastSeenDate)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *petsRepo) UpdateLost(ctx context.Context, p pets.LostPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lostByID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.lostByID[p.ID] = p
	return nil
}

func (r *petsRepo) DeleteLost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// borrar un id inexistente es no-op exitoso
	delete(r.lostByID, id)
	return nil
}

func (r *petsRepo) ListLostInBox(ctx context.Context, b pets.Box) ([]pets.LostPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.LostPet, 0)
	for _, p := range r.lostByID {
		if inBox(p.Lat, p.Lng, b) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeenDate.After(out[j].LastSeenDate)
	})
	return out, nil
}

func (r *petsRepo) CreateFound(ctx context.Context, p pets.FoundPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("found pet id required")
	}
	if _, exists := r.foundByID[p.ID]; exists {
		return errors.New("found pet already exists")
	}
	r.foundByID[p.ID] = p
	return nil
}

func (r *petsRepo) GetFoundByID(ctx context.Context, id string) (pets.FoundPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.foundByID[id]
	if !ok {
		return pets.FoundPet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListFound(ctx context.Context, limit int) ([]pets.FoundPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.FoundPet, 0, len(r.foundByID))
	for _, p := range r.foundByID {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FoundDate.After(out[j].FoundDate)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *petsRepo) UpdateFound(ctx context.Context, p pets.FoundPet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.foundByID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.foundByID[p.ID] = p
	return nil
}

func (r *petsRepo) DeleteFound(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.foundByID, id)
	return nil
}

func (r *petsRepo) ListFoundInBox(ctx context.Context, b pets.Box) ([]pets.FoundPet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.FoundPet, 0)
	for _, p := range r.foundByID {
		if inBox(p.Lat, p.Lng, b) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FoundDate.After(out[j].FoundDate)
	})
	return out, nil
}

func inBox(lat, lng float64, b pets.Box) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
