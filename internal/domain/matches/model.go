package matches

import (
	"time"

	"salva-mascotas/internal/domain/pets"
)

// Match es la afirmación persistida de que un par (lost, found) superó
// el umbral de similitud. La clave natural es el par de ids; el id
// surrogate existe para las operaciones de ciclo de vida.
type Match struct {
	ID string

	LostPetID  string
	FoundPetID string

	Score     float64 // siempre en [0,1]
	Validated bool

	CreatedAt time.Time
}

// EnrichedMatch agrega los reportes referenciados para display.
// Cualquiera de los dos puede faltar si el reporte fue borrado
// (no hay cascada; el listado tolera la referencia huérfana).
type EnrichedMatch struct {
	Match

	LostPet  *pets.LostPet
	FoundPet *pets.FoundPet
}
