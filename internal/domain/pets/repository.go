package pets

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("pet report not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Box es un bounding box aproximado para la consulta "cercanas".
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Repository persiste los dos pools de reportes.
// Los listados salen ordenados por la fecha propia del pool descendente
// (last_seen_date / found_date); limit <= 0 significa sin límite.
type Repository interface {
	CreateLost(ctx context.Context, p LostPet) error
	GetLostByID(ctx context.Context, id string) (LostPet, error)
	ListLost(ctx context.Context, limit int) ([]LostPet, error)
	UpdateLost(ctx context.Context, p LostPet) error
	DeleteLost(ctx context.Context, id string) error
	ListLostInBox(ctx context.Context, b Box) ([]LostPet, error)

	CreateFound(ctx context.Context, p FoundPet) error
	GetFoundByID(ctx context.Context, id string) (FoundPet, error)
	ListFound(ctx context.Context, limit int) ([]FoundPet, error)
	UpdateFound(ctx context.Context, p FoundPet) error
	DeleteFound(ctx context.Context, id string) error
	ListFoundInBox(ctx context.Context, b Box) ([]FoundPet, error)
}
