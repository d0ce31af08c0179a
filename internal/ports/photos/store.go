package photos

import "context"

// Store guarda la foto de un reporte y devuelve su URL pública.
// key es un path relativo tipo "lost/<uuid>.jpg".
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (publicURL string, err error)
}
