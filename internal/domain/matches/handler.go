package matches

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salva-mascotas/internal/domain/pets"
)

func RegisterRoutes(r chi.Router, svc *Service, engine *Engine) {
	r.Route("/api/matches", func(mr chi.Router) {
		mr.Get("/", listPendingHandler(svc))
		mr.Get("/validated", listValidatedHandler(svc))
		mr.Get("/lost/{lostID}", listByLostHandler(svc))
		mr.Get("/found/{foundID}", listByFoundHandler(svc))

		mr.Post("/{matchID}/confirm", confirmHandler(svc))
		mr.Delete("/{matchID}", deleteHandler(svc))
	})

	// Disparo manual del discovery para un found existente.
	r.Post("/api/ai/match/{foundID}", triggerDiscoveryHandler(engine))
}

type matchResponse struct {
	ID         string    `json:"id"`
	LostPetID  string    `json:"lost_pet_id"`
	FoundPetID string    `json:"found_pet_id"`
	Score      float64   `json:"score"`
	Validated  bool      `json:"validated"`
	CreatedAt  time.Time `json:"created_at"`
}

// Los campos lost_pets / found_pets replican la convención de relaciones
// embebidas del esquema original; el frontend existente los espera así.
type enrichedMatchResponse struct {
	matchResponse

	LostPet  *lostPetJSON  `json:"lost_pets"`
	FoundPet *foundPetJSON `json:"found_pets"`
}

type lostPetJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"ownerName"`
	Type         string    `json:"type"`
	Breed        string    `json:"breed"`
	Color        string    `json:"color"`
	Size         string    `json:"size"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	LastSeenDate time.Time `json:"last_seen_date"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	PhotoURL     string    `json:"photo_url"`
}

type foundPetJSON struct {
	ID           string    `json:"id"`
	ReporterName string    `json:"reporterName"`
	Type         string    `json:"type"`
	Breed        string    `json:"breed"`
	Color        string    `json:"color"`
	Size         string    `json:"size"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	FoundDate    time.Time `json:"found_date"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	PhotoURL     string    `json:"photo_url"`
}

func toMatchResponse(m Match) matchResponse {
	return matchResponse{
		ID:         m.ID,
		LostPetID:  m.LostPetID,
		FoundPetID: m.FoundPetID,
		Score:      m.Score,
		Validated:  m.Validated,
		CreatedAt:  m.CreatedAt,
	}
}

func toEnrichedResponse(em EnrichedMatch) enrichedMatchResponse {
	out := enrichedMatchResponse{matchResponse: toMatchResponse(em.Match)}
	if em.LostPet != nil {
		out.LostPet = toLostJSON(*em.LostPet)
	}
	if em.FoundPet != nil {
		out.FoundPet = toFoundJSON(*em.FoundPet)
	}
	return out
}

func toLostJSON(p pets.LostPet) *lostPetJSON {
	return &lostPetJSON{
		ID:           p.ID,
		Name:         p.Name,
		OwnerName:    p.OwnerName,
		Type:         p.Type,
		Breed:        p.Breed,
		Color:        p.Color,
		Size:         string(p.Size),
		Description:  p.Notes,
		Phone:        p.Phone,
		LastSeenDate: p.LastSeenDate,
		Lat:          p.Lat,
		Lng:          p.Lng,
		PhotoURL:     p.PhotoURL,
	}
}

func toFoundJSON(p pets.FoundPet) *foundPetJSON {
	return &foundPetJSON{
		ID:           p.ID,
		ReporterName: p.ReporterName,
		Type:         p.Type,
		Breed:        p.Breed,
		Color:        p.Color,
		Size:         string(p.Size),
		Description:  p.Notes,
		Phone:        p.Phone,
		FoundDate:    p.FoundDate,
		Lat:          p.Lat,
		Lng:          p.Lng,
		PhotoURL:     p.PhotoURL,
	}
}

func listPendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPending(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeEnrichedList(w, items)
	}
}

func listValidatedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListValidated(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeEnrichedList(w, items)
	}
}

func listByLostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByLostPet(r.Context(), chi.URLParam(r, "lostID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeEnrichedList(w, items)
	}
}

func listByFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByFoundPet(r.Context(), chi.URLParam(r, "foundID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeEnrichedList(w, items)
	}
}

func confirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Confirm(r.Context(), chi.URLParam(r, "matchID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "match not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toMatchResponse(m))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "matchID")); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func triggerDiscoveryHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := engine.TriggerForFound(r.Context(), chi.URLParam(r, "foundID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "found report not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]matchResponse, 0, len(found))
		for _, m := range found {
			out = append(out, toMatchResponse(m))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"matches": out,
		})
	}
}

func writeEnrichedList(w http.ResponseWriter, items []EnrichedMatch) {
	out := make([]enrichedMatchResponse, 0, len(items))
	for _, em := range items {
		out = append(out, toEnrichedResponse(em))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeJSON está duplicado a propósito entre pets y matches
// (misma razón que en el resto de los módulos: todavía no amerita helper común).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
