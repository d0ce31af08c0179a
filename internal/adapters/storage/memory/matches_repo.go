package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"salva-mascotas/internal/domain/matches"
)

type pairKey struct {
	lostPetID  string
	foundPetID string
}

type matchesRepo struct {
	mu     sync.RWMutex
	byPair map[pairKey]matches.Match
}

func NewMatchesRepo() matches.Repository {
	return &matchesRepo{
		byPair: make(map[pairKey]matches.Match),
	}
}

// Upsert replica la semántica del ON CONFLICT de Postgres: el mapa está
// indexado por el par, así nunca hay dos filas para (lost, found); en
// conflicto solo se refresca el score.
func (r *matchesRepo) Upsert(ctx context.Context, m matches.Match) (matches.Match, error) {
	if strings.TrimSpace(m.LostPetID) == "" || strings.TrimSpace(m.FoundPetID) == "" {
		return matches.Match{}, errors.New("match pair ids required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{lostPetID: m.LostPetID, foundPetID: m.FoundPetID}
	if existing, ok := r.byPair[key]; ok {
		existing.Score = m.Score
		r.byPair[key] = existing
		return existing, nil
	}

	r.byPair[key] = m
	return m, nil
}

func (r *matchesRepo) GetByID(ctx context.Context, id string) (matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.byPair {
		if m.ID == id {
			return m, nil
		}
	}
	return matches.Match{}, matches.ErrNotFound
}

func (r *matchesRepo) ListByValidated(ctx context.Context, validated bool) ([]matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byPair {
		if m.Validated == validated {
			out = append(out, m)
		}
	}
	sortByScoreDesc(out)
	return out, nil
}

func (r *matchesRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byPair {
		if m.LostPetID == lostPetID {
			out = append(out, m)
		}
	}
	sortByScoreDesc(out)
	return out, nil
}

func (r *matchesRepo) ListByFoundPet(ctx context.Context, foundPetID string) ([]matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byPair {
		if m.FoundPetID == foundPetID {
			out = append(out, m)
		}
	}
	sortByScoreDesc(out)
	return out, nil
}

func (r *matchesRepo) SetValidated(ctx context.Context, id string) (matches.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, m := range r.byPair {
		if m.ID == id {
			m.Validated = true
			r.byPair[key] = m
			return m, nil
		}
	}
	return matches.Match{}, matches.ErrNotFound
}

func (r *matchesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, m := range r.byPair {
		if m.ID == id {
			delete(r.byPair, key)
			return nil
		}
	}
	// borrar un id inexistente es no-op exitoso
	return nil
}

func sortByScoreDesc(items []matches.Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		// desempate estable para listados consistentes en dev
		return items[i].ID < items[j].ID
	})
}
