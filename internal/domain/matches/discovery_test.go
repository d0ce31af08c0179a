package matches

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"salva-mascotas/internal/domain/pets"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type pairKey struct {
	lostID  string
	foundID string
}

type testMatchRepo struct {
	byPair map[pairKey]Match

	failUpsert error // si está seteado, Upsert falla para todos los pares
	upserts    int
}

func newTestMatchRepo() *testMatchRepo {
	return &testMatchRepo{byPair: map[pairKey]Match{}}
}

func (r *testMatchRepo) Upsert(ctx context.Context, m Match) (Match, error) {
	r.upserts++
	if r.failUpsert != nil {
		return Match{}, r.failUpsert
	}

	key := pairKey{lostID: m.LostPetID, foundID: m.FoundPetID}
	if existing, ok := r.byPair[key]; ok {
		// conflicto por par: solo se refresca el score
		existing.Score = m.Score
		r.byPair[key] = existing
		return existing, nil
	}
	r.byPair[key] = m
	return m, nil
}

func (r *testMatchRepo) GetByID(ctx context.Context, id string) (Match, error) {
	for _, m := range r.byPair {
		if m.ID == id {
			return m, nil
		}
	}
	return Match{}, ErrNotFound
}

func (r *testMatchRepo) ListByValidated(ctx context.Context, validated bool) ([]Match, error) {
	out := make([]Match, 0)
	for _, m := range r.byPair {
		if m.Validated == validated {
			out = append(out, m)
		}
	}
	sortScoreDesc(out)
	return out, nil
}

func (r *testMatchRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]Match, error) {
	out := make([]Match, 0)
	for _, m := range r.byPair {
		if m.LostPetID == lostPetID {
			out = append(out, m)
		}
	}
	sortScoreDesc(out)
	return out, nil
}

func (r *testMatchRepo) ListByFoundPet(ctx context.Context, foundPetID string) ([]Match, error) {
	out := make([]Match, 0)
	for _, m := range r.byPair {
		if m.FoundPetID == foundPetID {
			out = append(out, m)
		}
	}
	sortScoreDesc(out)
	return out, nil
}

func (r *testMatchRepo) SetValidated(ctx context.Context, id string) (Match, error) {
	for key, m := range r.byPair {
		if m.ID == id {
			m.Validated = true
			r.byPair[key] = m
			return m, nil
		}
	}
	return Match{}, ErrNotFound
}

func (r *testMatchRepo) Delete(ctx context.Context, id string) error {
	for key, m := range r.byPair {
		if m.ID == id {
			delete(r.byPair, key)
			return nil
		}
	}
	return nil
}

func sortScoreDesc(items []Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}

// -------------------------
// Test pet source
// -------------------------

type testPetSource struct {
	lost  []pets.LostPet
	found []pets.FoundPet

	listLostErr  error
	listFoundErr error
}

func (s *testPetSource) GetFoundByID(ctx context.Context, id string) (pets.FoundPet, error) {
	for _, p := range s.found {
		if p.ID == id {
			return p, nil
		}
	}
	return pets.FoundPet{}, pets.ErrNotFound
}

func (s *testPetSource) ListLost(ctx context.Context, limit int) ([]pets.LostPet, error) {
	if s.listLostErr != nil {
		return nil, s.listLostErr
	}
	if limit > 0 && limit < len(s.lost) {
		return s.lost[:limit], nil
	}
	return s.lost, nil
}

func (s *testPetSource) ListFound(ctx context.Context, limit int) ([]pets.FoundPet, error) {
	if s.listFoundErr != nil {
		return nil, s.listFoundErr
	}
	if limit > 0 && limit < len(s.found) {
		return s.found[:limit], nil
	}
	return s.found, nil
}

// -------------------------
// Test scorer
// -------------------------

type scoredPair struct {
	lostPhotoURL  string
	foundPhotoURL string
}

// testScorer devuelve un score fijo por URL de foto lost y registra
// el orden exacto en que le pasaron las fotos.
type testScorer struct {
	byLostPhoto map[string]float64
	calls       []scoredPair
}

func (s *testScorer) MatchScore(ctx context.Context, lostPhotoURL, foundPhotoURL string) float64 {
	s.calls = append(s.calls, scoredPair{lostPhotoURL: lostPhotoURL, foundPhotoURL: foundPhotoURL})
	return s.byLostPhoto[lostPhotoURL]
}

func lostPet(id string) pets.LostPet {
	return pets.LostPet{ID: id, Name: "Firulais", PhotoURL: "mem://photos/lost/" + id + ".jpg"}
}

func foundPet(id string) pets.FoundPet {
	return pets.FoundPet{ID: id, PhotoURL: "mem://photos/found/" + id + ".jpg"}
}

// -------------------------
// Tests
// -------------------------

func TestEngine_DiscoverForFound_ThresholdIsInclusive(t *testing.T) {
	repo := newTestMatchRepo()
	source := &testPetSource{
		lost: []pets.LostPet{lostPet("l-below"), lostPet("l-exact"), lostPet("l-above")},
	}
	scorer := &testScorer{byLostPhoto: map[string]float64{
		lostPet("l-below").PhotoURL: 0.69,
		lostPet("l-exact").PhotoURL: 0.70,
		lostPet("l-above").PhotoURL: 0.95,
	}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	out, err := engine.DiscoverForFound(context.Background(), foundPet("f-1"))
	if err != nil {
		t.Fatalf("DiscoverForFound error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 qualifying matches (0.70 incluido), got %d", len(out))
	}
	if len(repo.byPair) != 2 {
		t.Fatalf("expected 2 persisted matches, got %d", len(repo.byPair))
	}
	if _, ok := repo.byPair[pairKey{lostID: "l-exact", foundID: "f-1"}]; !ok {
		t.Fatalf("expected score exactly at threshold to qualify")
	}
	if _, ok := repo.byPair[pairKey{lostID: "l-below", foundID: "f-1"}]; ok {
		t.Fatalf("score below threshold must not persist")
	}
}

func TestEngine_DiscoverForFound_PhotoOrderIsLostFirst(t *testing.T) {
	repo := newTestMatchRepo()
	lost := lostPet("l-1")
	source := &testPetSource{lost: []pets.LostPet{lost}}
	scorer := &testScorer{byLostPhoto: map[string]float64{lost.PhotoURL: 0.9}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	found := foundPet("f-1")
	if _, err := engine.DiscoverForFound(context.Background(), found); err != nil {
		t.Fatalf("DiscoverForFound error: %v", err)
	}

	if len(scorer.calls) != 1 {
		t.Fatalf("expected 1 oracle call, got %d", len(scorer.calls))
	}
	// aunque el disparo vino del lado found, la foto lost va primero
	if scorer.calls[0].lostPhotoURL != lost.PhotoURL || scorer.calls[0].foundPhotoURL != found.PhotoURL {
		t.Fatalf("expected (lost, found) photo order, got %+v", scorer.calls[0])
	}
}

func TestEngine_Discover_RerunRefreshesScoreOnly(t *testing.T) {
	repo := newTestMatchRepo()
	lost := lostPet("l-1")
	source := &testPetSource{lost: []pets.LostPet{lost}}
	scorer := &testScorer{byLostPhoto: map[string]float64{lost.PhotoURL: 0.80}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())
	found := foundPet("f-1")

	first, err := engine.DiscoverForFound(context.Background(), found)
	if err != nil {
		t.Fatalf("DiscoverForFound #1 error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 match, got %d", len(first))
	}

	// el usuario confirma, y después el discovery vuelve a correr con otro score
	if _, err := repo.SetValidated(context.Background(), first[0].ID); err != nil {
		t.Fatalf("SetValidated error: %v", err)
	}
	scorer.byLostPhoto[lost.PhotoURL] = 0.91

	second, err := engine.DiscoverForFound(context.Background(), found)
	if err != nil {
		t.Fatalf("DiscoverForFound #2 error: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected 1 match on rerun, got %d", len(second))
	}
	if len(repo.byPair) != 1 {
		t.Fatalf("rerun must not duplicate the pair, got %d rows", len(repo.byPair))
	}

	m := second[0]
	if m.ID != first[0].ID {
		t.Fatalf("expected same row ID on upsert, got %s vs %s", first[0].ID, m.ID)
	}
	if m.Score != 0.91 {
		t.Fatalf("expected refreshed score 0.91, got %v", m.Score)
	}
	if !m.Validated {
		t.Fatalf("validated must survive a score refresh")
	}
}

func TestEngine_Discover_ClampsScoreIntoRange(t *testing.T) {
	repo := newTestMatchRepo()
	lost := lostPet("l-1")
	source := &testPetSource{lost: []pets.LostPet{lost}}
	scorer := &testScorer{byLostPhoto: map[string]float64{lost.PhotoURL: 1.4}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	out, err := engine.DiscoverForFound(context.Background(), foundPet("f-1"))
	if err != nil {
		t.Fatalf("DiscoverForFound error: %v", err)
	}
	if len(out) != 1 || out[0].Score != 1 {
		t.Fatalf("expected clamped score 1, got %+v", out)
	}
}

func TestEngine_DiscoverForLost_CandidateLoadFailureAborts(t *testing.T) {
	repo := newTestMatchRepo()
	source := &testPetSource{listFoundErr: errors.New("db down")}
	scorer := &testScorer{byLostPhoto: map[string]float64{}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	_, err := engine.DiscoverForLost(context.Background(), lostPet("l-1"))
	if err == nil {
		t.Fatalf("expected error when candidate pool cannot load")
	}
	if len(scorer.calls) != 0 {
		t.Fatalf("oracle must not be called when candidates fail to load")
	}
	if repo.upserts != 0 {
		t.Fatalf("nothing must persist when candidates fail to load")
	}
}

func TestEngine_Discover_PersistFailureDoesNotAbortLoop(t *testing.T) {
	repo := newTestMatchRepo()
	repo.failUpsert = errors.New("unique_violation noise")

	source := &testPetSource{
		lost: []pets.LostPet{lostPet("l-1"), lostPet("l-2")},
	}
	scorer := &testScorer{byLostPhoto: map[string]float64{
		lostPet("l-1").PhotoURL: 0.85,
		lostPet("l-2").PhotoURL: 0.90,
	}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	out, err := engine.DiscoverForFound(context.Background(), foundPet("f-1"))
	if err != nil {
		t.Fatalf("a per-candidate persist failure must not abort the run: %v", err)
	}
	// ambos pares calificaron y ambos se intentaron
	if len(out) != 2 {
		t.Fatalf("expected both qualifying pairs reported, got %d", len(out))
	}
	if repo.upserts != 2 {
		t.Fatalf("expected loop to keep going after first persist failure, got %d upserts", repo.upserts)
	}
}

func TestEngine_TriggerForFound_UnknownIDIsNotFound(t *testing.T) {
	repo := newTestMatchRepo()
	source := &testPetSource{}
	scorer := &testScorer{byLostPhoto: map[string]float64{}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())

	_, err := engine.TriggerForFound(context.Background(), "no-such-found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEngine_TriggerForFound_RunsFullDiscovery(t *testing.T) {
	repo := newTestMatchRepo()
	lost := lostPet("l-1")
	found := foundPet("f-1")
	source := &testPetSource{
		lost:  []pets.LostPet{lost},
		found: []pets.FoundPet{found},
	}
	scorer := &testScorer{byLostPhoto: map[string]float64{lost.PhotoURL: 0.88}}

	engine := NewEngine(repo, source, scorer, zap.NewNop().Sugar())
	engine.now = func() time.Time { return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) }

	out, err := engine.TriggerForFound(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("TriggerForFound error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 match, got %d", len(out))
	}
	m := out[0]
	if m.LostPetID != "l-1" || m.FoundPetID != "f-1" || m.Score != 0.88 || m.Validated {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.CreatedAt != time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) {
		t.Fatalf("expected injected now as CreatedAt, got %v", m.CreatedAt)
	}
}
