package pets

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxPhotoBytes = 10 << 20 // 10MB

// Hooks permite al router enganchar el discovery oportunista después
// de crear un reporte, sin acoplar este módulo a matches.
type Hooks struct {
	OnLostCreated  func(LostPet)
	OnFoundCreated func(FoundPet)
}

func RegisterRoutes(r chi.Router, svc *Service, hooks Hooks) {
	r.Route("/api/pets", func(pr chi.Router) {
		pr.Get("/lost", listLostHandler(svc))
		pr.Get("/found", listFoundHandler(svc))

		pr.Post("/lost", createLostHandler(svc, hooks))
		pr.Post("/found", createFoundHandler(svc, hooks))

		pr.Get("/near", nearHandler(svc))

		pr.Put("/{type}/{petID}", updatePetHandler(svc))
		pr.Delete("/{type}/{petID}", deletePetHandler(svc))
	})
}

// Respuestas con los nombres de columna del esquema original
// (el frontend existente depende de ellos).
type lostPetResponse struct {
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
	CreatedAt    time.Time `json:"created_at"`
}

type foundPetResponse struct {
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
	CreatedAt    time.Time `json:"created_at"`
}

func toLostResponse(p LostPet) lostPetResponse {
	return lostPetResponse{
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
		CreatedAt:    p.CreatedAt,
	}
}

func toFoundResponse(p FoundPet) foundPetResponse {
	return foundPetResponse{
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
		CreatedAt:    p.CreatedAt,
	}
}

func listLostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLost(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]lostPetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toLostResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListFound(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]foundPetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toFoundResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createLostHandler(svc *Service, hooks Hooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photo, form, ok := parseReportForm(w, r)
		if !ok {
			return
		}

		p, err := svc.CreateLost(r.Context(), CreateLostInput{
			Name:         form.get("name"),
			OwnerName:    form.get("ownerName"),
			Type:         form.get("type"),
			Breed:        form.get("breed"),
			Color:        form.get("color"),
			Size:         form.get("size"),
			Notes:        form.get("description"),
			Phone:        form.get("phone"),
			LastSeenDate: form.date,
			Lat:          form.lat,
			Lng:          form.lng,
			Photo:        photo,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		// Discovery oportunista: se encola acá para que ya esté registrado
		// cuando el cliente vea el 201, pero corre en background y la
		// respuesta no espera su resultado.
		if hooks.OnLostCreated != nil {
			hooks.OnLostCreated(p)
		}

		writeJSON(w, http.StatusCreated, toLostResponse(p))
	}
}

func createFoundHandler(svc *Service, hooks Hooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photo, form, ok := parseReportForm(w, r)
		if !ok {
			return
		}

		p, err := svc.CreateFound(r.Context(), CreateFoundInput{
			ReporterName: form.get("reporterName"),
			Type:         form.get("type"),
			Breed:        form.get("breed"),
			Color:        form.get("color"),
			Size:         form.get("size"),
			Notes:        form.get("description"),
			Phone:        form.get("phone"),
			FoundDate:    form.date,
			Lat:          form.lat,
			Lng:          form.lng,
			Photo:        photo,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if hooks.OnFoundCreated != nil {
			hooks.OnFoundCreated(p)
		}

		writeJSON(w, http.StatusCreated, toFoundResponse(p))
	}
}

// reportForm agrupa los campos comunes del multipart ya validados.
type reportForm struct {
	r    *http.Request
	lat  float64
	lng  float64
	date *time.Time // last_seen_date o found_date según el pool
}

func (f reportForm) get(field string) string {
	return strings.TrimSpace(f.r.FormValue(field))
}

// parseReportForm valida la frontera de ingestión: foto obligatoria,
// lat/lng numéricos, fecha con formato conocido. Responde 400 y devuelve
// ok=false ante cualquier input malformado.
func parseReportForm(w http.ResponseWriter, r *http.Request) (PhotoUpload, reportForm, bool) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return PhotoUpload{}, reportForm{}, false
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo is required", http.StatusBadRequest)
		return PhotoUpload{}, reportForm{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil || len(data) == 0 {
		http.Error(w, "photo is required", http.StatusBadRequest)
		return PhotoUpload{}, reportForm{}, false
	}

	photo := PhotoUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	form := reportForm{r: r}

	form.lat, err = strconv.ParseFloat(strings.TrimSpace(r.FormValue("lat")), 64)
	if err != nil {
		http.Error(w, "lat must be a number", http.StatusBadRequest)
		return PhotoUpload{}, reportForm{}, false
	}
	form.lng, err = strconv.ParseFloat(strings.TrimSpace(r.FormValue("lng")), 64)
	if err != nil {
		http.Error(w, "lng must be a number", http.StatusBadRequest)
		return PhotoUpload{}, reportForm{}, false
	}

	// el campo de fecha difiere por pool, aceptamos cualquiera de los dos
	raw := strings.TrimSpace(r.FormValue("last_seen_date"))
	if raw == "" {
		raw = strings.TrimSpace(r.FormValue("found_date"))
	}
	if raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			http.Error(w, "date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
			return PhotoUpload{}, reportForm{}, false
		}
		form.date = &t
	}

	return photo, form, true
}

func nearHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if errLat != nil || errLng != nil {
			http.Error(w, "lat and lng are required", http.StatusBadRequest)
			return
		}

		radiusKm := 0.0
		if raw := r.URL.Query().Get("radiusKm"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				http.Error(w, "radiusKm must be a number", http.StatusBadRequest)
				return
			}
			radiusKm = v
		}

		res, err := svc.Near(r.Context(), lat, lng, radiusKm)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		lost := make([]lostPetResponse, 0, len(res.Lost))
		for _, p := range res.Lost {
			lost = append(lost, toLostResponse(p))
		}
		found := make([]foundPetResponse, 0, len(res.Found))
		for _, p := range res.Found {
			found = append(found, toFoundResponse(p))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"lost":  lost,
			"found": found,
		})
	}
}

type updateLostRequest struct {
	Name         *string  `json:"name"`
	OwnerName    *string  `json:"ownerName"`
	Type         *string  `json:"type"`
	Breed        *string  `json:"breed"`
	Color        *string  `json:"color"`
	Size         *string  `json:"size"`
	Description  *string  `json:"description"`
	Phone        *string  `json:"phone"`
	LastSeenDate *string  `json:"last_seen_date"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

type updateFoundRequest struct {
	ReporterName *string  `json:"reporterName"`
	Type         *string  `json:"type"`
	Breed        *string  `json:"breed"`
	Color        *string  `json:"color"`
	Size         *string  `json:"size"`
	Description  *string  `json:"description"`
	Phone        *string  `json:"phone"`
	FoundDate    *string  `json:"found_date"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		switch chi.URLParam(r, "type") {
		case "lost":
			var req updateLostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}

			date, ok := parseOptionalDate(w, req.LastSeenDate)
			if !ok {
				return
			}

			p, err := svc.UpdateLost(r.Context(), petID, UpdateLostInput{
				Name:         req.Name,
				OwnerName:    req.OwnerName,
				Type:         req.Type,
				Breed:        req.Breed,
				Color:        req.Color,
				Size:         req.Size,
				Notes:        req.Description,
				Phone:        req.Phone,
				LastSeenDate: date,
				Lat:          req.Lat,
				Lng:          req.Lng,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toLostResponse(p))

		case "found":
			var req updateFoundRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}

			date, ok := parseOptionalDate(w, req.FoundDate)
			if !ok {
				return
			}

			p, err := svc.UpdateFound(r.Context(), petID, UpdateFoundInput{
				ReporterName: req.ReporterName,
				Type:         req.Type,
				Breed:        req.Breed,
				Color:        req.Color,
				Size:         req.Size,
				Notes:        req.Description,
				Phone:        req.Phone,
				FoundDate:    date,
				Lat:          req.Lat,
				Lng:          req.Lng,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toFoundResponse(p))

		default:
			http.Error(w, "pet type must be lost or found", http.StatusBadRequest)
		}
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		var err error
		switch chi.URLParam(r, "type") {
		case "lost":
			err = svc.DeleteLost(r.Context(), petID)
		case "found":
			err = svc.DeleteFound(r.Context(), petID)
		default:
			http.Error(w, "pet type must be lost or found", http.StatusBadRequest)
			return
		}

		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func parseOptionalDate(w http.ResponseWriter, raw *string) (*time.Time, bool) {
	if raw == nil {
		return nil, true
	}
	t, err := parseDate(strings.TrimSpace(*raw))
	if err != nil {
		http.Error(w, "date must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet report not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en pets y matches
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
