package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salva-mascotas/internal/domain/pets"
	"salva-mascotas/internal/ports/vision"
)

const (
	// MatchThreshold es inclusivo: score >= 0.70 califica.
	MatchThreshold = 0.70

	// CandidateWindow acota el fan-out: solo los N reportes más recientes
	// del pool opuesto entran a comparar.
	CandidateWindow = 50
)

// PetSource es lo que el engine necesita del módulo pets: resolver un
// reporte y traer la ventana de candidatos del pool opuesto.
type PetSource interface {
	GetFoundByID(ctx context.Context, id string) (pets.FoundPet, error)
	ListLost(ctx context.Context, limit int) ([]pets.LostPet, error)
	ListFound(ctx context.Context, limit int) ([]pets.FoundPet, error)
}

// Engine corre el fan-out de comparaciones contra el oráculo de visión
// y persiste los pares que califican. Las comparaciones van en serie:
// cada llamada al oráculo ya es cara, y el loop secuencial mantiene el
// costo acotado sin golpear al proveedor en ráfaga.
type Engine struct {
	repo   Repository
	pets   PetSource
	scorer vision.Scorer
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewEngine(repo Repository, petSource PetSource, scorer vision.Scorer, log *zap.SugaredLogger) *Engine {
	return &Engine{
		repo:   repo,
		pets:   petSource,
		scorer: scorer,
		log:    log,
		now:    time.Now,
	}
}

// DiscoverForLost compara un reporte lost recién creado contra los
// found más recientes. Si falla la carga de candidatos, la corrida
// entera aborta; una falla por candidato se loguea y se sigue.
func (e *Engine) DiscoverForLost(ctx context.Context, lost pets.LostPet) ([]Match, error) {
	candidates, err := e.pets.ListFound(ctx, CandidateWindow)
	if err != nil {
		return nil, fmt.Errorf("load found candidates: %w", err)
	}

	out := make([]Match, 0)
	for _, found := range candidates {
		if m, ok := e.scoreAndPersist(ctx, lost.ID, lost.PhotoURL, found.ID, found.PhotoURL); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// DiscoverForFound es el espejo: un found nuevo contra los lost recientes.
func (e *Engine) DiscoverForFound(ctx context.Context, found pets.FoundPet) ([]Match, error) {
	candidates, err := e.pets.ListLost(ctx, CandidateWindow)
	if err != nil {
		return nil, fmt.Errorf("load lost candidates: %w", err)
	}

	out := make([]Match, 0)
	for _, lost := range candidates {
		if m, ok := e.scoreAndPersist(ctx, lost.ID, lost.PhotoURL, found.ID, found.PhotoURL); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// TriggerForFound es la variante manual síncrona: resuelve el reporte
// found (ErrNotFound si no existe) y corre el mismo discovery.
func (e *Engine) TriggerForFound(ctx context.Context, foundID string) ([]Match, error) {
	found, err := e.pets.GetFoundByID(ctx, foundID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load found report: %w", err)
	}
	return e.DiscoverForFound(ctx, found)
}

// scoreAndPersist evalúa un par. El orden de fotos es fijo: lost primero,
// found después, sin importar qué lado disparó el discovery. Un error de
// persistencia no aborta el resto del loop.
func (e *Engine) scoreAndPersist(ctx context.Context, lostID, lostPhotoURL, foundID, foundPhotoURL string) (Match, bool) {
	score := e.scorer.MatchScore(ctx, lostPhotoURL, foundPhotoURL)
	score = clamp01(score)

	if score < MatchThreshold {
		return Match{}, false
	}

	m := Match{
		ID:         uuid.NewString(),
		LostPetID:  lostID,
		FoundPetID: foundID,
		Score:      score,
		Validated:  false,
		CreatedAt:  e.now(),
	}

	saved, err := e.repo.Upsert(ctx, m)
	if err != nil {
		// El par calificó igual: se devuelve como intentado, solo
		// que sin fila persistida detrás.
		e.log.Errorw("failed to persist match",
			"lost_pet_id", lostID,
			"found_pet_id", foundID,
			"score", score,
			"error", err,
		)
		return m, true
	}

	e.log.Infow("match persisted",
		"lost_pet_id", lostID,
		"found_pet_id", foundID,
		"score", saved.Score,
	)
	return saved, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
