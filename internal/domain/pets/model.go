package pets

import "time"

// Size define las categorías de tamaño soportadas.
// @Enum pequeño, mediano, grande
type Size string

const (
	SizeSmall  Size = "pequeño"
	SizeMedium Size = "mediano"
	SizeLarge  Size = "grande"
)

// LostPet es un reporte de mascota perdida.
type LostPet struct {
	ID string

	Name      string
	OwnerName string
	Type      string // dog, cat, ...
	Breed     string
	Color     string
	Size      Size
	Notes     string // descripción libre
	Phone     string

	LastSeenDate time.Time
	Lat          float64
	Lng          float64

	PhotoURL string

	CreatedAt time.Time
}

// FoundPet es un reporte de mascota encontrada (avistamiento).
type FoundPet struct {
	ID string

	ReporterName string
	Type         string
	Breed        string
	Color        string
	Size         Size
	Notes        string
	Phone        string

	FoundDate time.Time
	Lat       float64
	Lng       float64

	PhotoURL string

	CreatedAt time.Time
}
