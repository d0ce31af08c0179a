package pets

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"salva-mascotas/internal/ports/photos"
)

const (
	earthRadiusKm   = 6371.0
	defaultRadiusKm = 5.0
)

type Service struct {
	repo   Repository
	photos photos.Store
	now    func() time.Time
}

func NewService(repo Repository, photoStore photos.Store) *Service {
	return &Service{
		repo:   repo,
		photos: photoStore,
		now:    time.Now,
	}
}

// PhotoUpload es la foto recibida por multipart. Obligatoria en la creación.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (p PhotoUpload) empty() bool { return len(p.Data) == 0 }

type CreateLostInput struct {
	Name      string
	OwnerName string
	Type      string
	Breed     string
	Color     string
	Size      string
	Notes     string
	Phone     string

	LastSeenDate *time.Time // nil => ahora
	Lat          float64
	Lng          float64

	Photo PhotoUpload
}

type CreateFoundInput struct {
	ReporterName string
	Type         string
	Breed        string
	Color        string
	Size         string
	Notes        string
	Phone        string

	FoundDate *time.Time
	Lat       float64
	Lng       float64

	Photo PhotoUpload
}

func (s *Service) CreateLost(ctx context.Context, in CreateLostInput) (LostPet, error) {
	if strings.TrimSpace(in.Name) == "" {
		return LostPet{}, ErrInvalidInput
	}
	if in.Photo.empty() {
		return LostPet{}, ErrInvalidInput
	}
	if !validCoords(in.Lat, in.Lng) {
		return LostPet{}, ErrInvalidInput
	}

	now := s.now()
	id := uuid.NewString()

	photoURL, err := s.savePhoto(ctx, "lost", id, in.Photo)
	if err != nil {
		return LostPet{}, err
	}

	seen := now
	if in.LastSeenDate != nil {
		seen = *in.LastSeenDate
	}

	p := LostPet{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		Type:         strings.TrimSpace(in.Type),
		Breed:        strings.TrimSpace(in.Breed),
		Color:        strings.TrimSpace(in.Color),
		Size:         Size(strings.TrimSpace(in.Size)),
		Notes:        strings.TrimSpace(in.Notes),
		Phone:        strings.TrimSpace(in.Phone),
		LastSeenDate: seen,
		Lat:          in.Lat,
		Lng:          in.Lng,
		PhotoURL:     photoURL,
		CreatedAt:    now,
	}

	if err := s.repo.CreateLost(ctx, p); err != nil {
		return LostPet{}, err
	}
	return p, nil
}

func (s *Service) CreateFound(ctx context.Context, in CreateFoundInput) (FoundPet, error) {
	if in.Photo.empty() {
		return FoundPet{}, ErrInvalidInput
	}
	if !validCoords(in.Lat, in.Lng) {
		return FoundPet{}, ErrInvalidInput
	}

	now := s.now()
	id := uuid.NewString()

	photoURL, err := s.savePhoto(ctx, "found", id, in.Photo)
	if err != nil {
		return FoundPet{}, err
	}

	found := now
	if in.FoundDate != nil {
		found = *in.FoundDate
	}

	p := FoundPet{
		ID:           id,
		ReporterName: strings.TrimSpace(in.ReporterName),
		Type:         strings.TrimSpace(in.Type),
		Breed:        strings.TrimSpace(in.Breed),
		Color:        strings.TrimSpace(in.Color),
		Size:         Size(strings.TrimSpace(in.Size)),
		Notes:        strings.TrimSpace(in.Notes),
		Phone:        strings.TrimSpace(in.Phone),
		FoundDate:    found,
		Lat:          in.Lat,
		Lng:          in.Lng,
		PhotoURL:     photoURL,
		CreatedAt:    now,
	}

	if err := s.repo.CreateFound(ctx, p); err != nil {
		return FoundPet{}, err
	}
	return p, nil
}

func (s *Service) ListLost(ctx context.Context) ([]LostPet, error) {
	return s.repo.ListLost(ctx, 0)
}

func (s *Service) ListFound(ctx context.Context) ([]FoundPet, error) {
	return s.repo.ListFound(ctx, 0)
}

func (s *Service) GetLostByID(ctx context.Context, id string) (LostPet, error) {
	return s.repo.GetLostByID(ctx, strings.TrimSpace(id))
}

func (s *Service) GetFoundByID(ctx context.Context, id string) (FoundPet, error) {
	return s.repo.GetFoundByID(ctx, strings.TrimSpace(id))
}

// UpdateLostInput es un PATCH real: nil = no tocar.
type UpdateLostInput struct {
	Name      *string
	OwnerName *string
	Type      *string
	Breed     *string
	Color     *string
	Size      *string
	Notes     *string
	Phone     *string

	LastSeenDate *time.Time
	Lat          *float64
	Lng          *float64
}

type UpdateFoundInput struct {
	ReporterName *string
	Type         *string
	Breed        *string
	Color        *string
	Size         *string
	Notes        *string
	Phone        *string

	FoundDate *time.Time
	Lat       *float64
	Lng       *float64
}

func (s *Service) UpdateLost(ctx context.Context, id string, in UpdateLostInput) (LostPet, error) {
	current, err := s.repo.GetLostByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return LostPet{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return LostPet{}, ErrInvalidInput
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.OwnerName != nil {
		current.OwnerName = strings.TrimSpace(*in.OwnerName)
	}
	if in.Type != nil {
		current.Type = strings.TrimSpace(*in.Type)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		current.Color = strings.TrimSpace(*in.Color)
	}
	if in.Size != nil {
		current.Size = Size(strings.TrimSpace(*in.Size))
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.LastSeenDate != nil {
		current.LastSeenDate = *in.LastSeenDate
	}
	if in.Lat != nil {
		current.Lat = *in.Lat
	}
	if in.Lng != nil {
		current.Lng = *in.Lng
	}
	if !validCoords(current.Lat, current.Lng) {
		return LostPet{}, ErrInvalidInput
	}

	if err := s.repo.UpdateLost(ctx, current); err != nil {
		return LostPet{}, err
	}
	return current, nil
}

func (s *Service) UpdateFound(ctx context.Context, id string, in UpdateFoundInput) (FoundPet, error) {
	current, err := s.repo.GetFoundByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return FoundPet{}, err
	}

	if in.ReporterName != nil {
		current.ReporterName = strings.TrimSpace(*in.ReporterName)
	}
	if in.Type != nil {
		current.Type = strings.TrimSpace(*in.Type)
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		current.Color = strings.TrimSpace(*in.Color)
	}
	if in.Size != nil {
		current.Size = Size(strings.TrimSpace(*in.Size))
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.FoundDate != nil {
		current.FoundDate = *in.FoundDate
	}
	if in.Lat != nil {
		current.Lat = *in.Lat
	}
	if in.Lng != nil {
		current.Lng = *in.Lng
	}
	if !validCoords(current.Lat, current.Lng) {
		return FoundPet{}, ErrInvalidInput
	}

	if err := s.repo.UpdateFound(ctx, current); err != nil {
		return FoundPet{}, err
	}
	return current, nil
}

// DeleteLost borra el reporte (hard delete). Los matches que lo referencian
// NO se borran en cascada: el listado enriquecido tolera la referencia huérfana.
func (s *Service) DeleteLost(ctx context.Context, id string) error {
	return s.repo.DeleteLost(ctx, strings.TrimSpace(id))
}

func (s *Service) DeleteFound(ctx context.Context, id string) error {
	return s.repo.DeleteFound(ctx, strings.TrimSpace(id))
}

// NearResult agrupa ambos pools dentro del radio pedido.
type NearResult struct {
	Lost  []LostPet
	Found []FoundPet
}

// Near aproxima "mascotas cercanas" con un bounding box sobre lat/lng.
func (s *Service) Near(ctx context.Context, lat, lng, radiusKm float64) (NearResult, error) {
	if !validCoords(lat, lng) {
		return NearResult{}, ErrInvalidInput
	}
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}

	deltaLat := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	deltaLng := (radiusKm / earthRadiusKm) * (180 / math.Pi) / math.Cos(lat*math.Pi/180)

	box := Box{
		MinLat: lat - deltaLat,
		MaxLat: lat + deltaLat,
		MinLng: lng - deltaLng,
		MaxLng: lng + deltaLng,
	}

	lost, err := s.repo.ListLostInBox(ctx, box)
	if err != nil {
		return NearResult{}, err
	}
	found, err := s.repo.ListFoundInBox(ctx, box)
	if err != nil {
		return NearResult{}, err
	}

	return NearResult{Lost: lost, Found: found}, nil
}

func (s *Service) savePhoto(ctx context.Context, pool, id string, photo PhotoUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(photo.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("%s/%s%s", pool, id, ext)
	url, err := s.photos.Save(ctx, key, contentType, photo.Data)
	if err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	return url, nil
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
