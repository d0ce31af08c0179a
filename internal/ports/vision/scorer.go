package vision

import "context"

// Scorer compara dos fotos y devuelve la confianza [0,1] de que sean
// la MISMA mascota. Es fail-closed: cualquier falla del proveedor
// (sin credenciales, red, respuesta no parseable) devuelve 0, nunca error.
// El orden es fijo: primero la foto lost, después la found.
type Scorer interface {
	MatchScore(ctx context.Context, lostPhotoURL, foundPhotoURL string) float64
}
