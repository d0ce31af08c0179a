package matches

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"salva-mascotas/internal/domain/pets"
)

// ReportSource resuelve los reportes referenciados para el enriquecido.
type ReportSource interface {
	GetLostByID(ctx context.Context, id string) (pets.LostPet, error)
	GetFoundByID(ctx context.Context, id string) (pets.FoundPet, error)
}

// Service expone el ciclo de vida de los matches persistidos:
// pending -> validated (confirm, una sola dirección) y delete desde
// cualquier estado.
type Service struct {
	repo    Repository
	reports ReportSource
	log     *zap.SugaredLogger
}

func NewService(repo Repository, reports ReportSource, log *zap.SugaredLogger) *Service {
	return &Service{
		repo:    repo,
		reports: reports,
		log:     log,
	}
}

func (s *Service) ListPending(ctx context.Context) ([]EnrichedMatch, error) {
	items, err := s.repo.ListByValidated(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items), nil
}

func (s *Service) ListValidated(ctx context.Context) ([]EnrichedMatch, error) {
	items, err := s.repo.ListByValidated(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items), nil
}

func (s *Service) ListByLostPet(ctx context.Context, lostPetID string) ([]EnrichedMatch, error) {
	items, err := s.repo.ListByLostPet(ctx, strings.TrimSpace(lostPetID))
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items), nil
}

func (s *Service) ListByFoundPet(ctx context.Context, foundPetID string) ([]EnrichedMatch, error) {
	items, err := s.repo.ListByFoundPet(ctx, strings.TrimSpace(foundPetID))
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, items), nil
}

// Confirm marca validated=true. Es idempotente: confirmar un match ya
// validado devuelve la fila sin error. ErrNotFound si el id no resuelve.
func (s *Service) Confirm(ctx context.Context, id string) (Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Match{}, ErrNotFound
	}
	return s.repo.SetValidated(ctx, id)
}

// Delete borra el match sin importar su estado. Borrar un id inexistente
// es un no-op exitoso (la capa de storage ya lo trata así).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.repo.Delete(ctx, id)
}

// enrich agrega los reportes referenciados. Un reporte borrado deja el
// puntero en nil en vez de tirar el match (no hay cascada de borrado).
func (s *Service) enrich(ctx context.Context, items []Match) []EnrichedMatch {
	out := make([]EnrichedMatch, 0, len(items))
	for _, m := range items {
		em := EnrichedMatch{Match: m}

		if lost, err := s.reports.GetLostByID(ctx, m.LostPetID); err == nil {
			em.LostPet = &lost
		} else if !errors.Is(err, pets.ErrNotFound) {
			s.log.Warnw("failed to enrich match with lost report",
				"match_id", m.ID, "lost_pet_id", m.LostPetID, "error", err)
		}

		if found, err := s.reports.GetFoundByID(ctx, m.FoundPetID); err == nil {
			em.FoundPet = &found
		} else if !errors.Is(err, pets.ErrNotFound) {
			s.log.Warnw("failed to enrich match with found report",
				"match_id", m.ID, "found_pet_id", m.FoundPetID, "error", err)
		}

		out = append(out, em)
	}
	return out
}
