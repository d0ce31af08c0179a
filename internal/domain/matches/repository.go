package matches

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("match not found")
)

// Repository persiste matches. Upsert es la única vía de escritura del
// discovery: la unicidad por par la garantiza el conflict de la clave
// (lost_pet_id, found_pet_id), no un pre-read, así dos discovery
// concurrentes no duplican filas.
type Repository interface {
	// Upsert inserta el match o, si el par ya existe, refresca solo el
	// score (id, validated y created_at de la fila existente sobreviven).
	// Devuelve la fila resultante.
	Upsert(ctx context.Context, m Match) (Match, error)

	GetByID(ctx context.Context, id string) (Match, error)

	// Listados ordenados por score descendente.
	ListByValidated(ctx context.Context, validated bool) ([]Match, error)
	ListByLostPet(ctx context.Context, lostPetID string) ([]Match, error)
	ListByFoundPet(ctx context.Context, foundPetID string) ([]Match, error)

	// SetValidated marca validated=true. ErrNotFound si el id no existe.
	SetValidated(ctx context.Context, id string) (Match, error)

	// Delete borra la fila; borrar un id inexistente es un no-op exitoso.
	Delete(ctx context.Context, id string) error
}
