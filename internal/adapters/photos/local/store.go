// Package local guarda las fotos en disco y las sirve como estáticos
// bajo /uploads (reemplazo local del bucket del proveedor).
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	root      string
	publicURL string // base pública, p.ej. http://localhost:4000
}

func NewStore(root, publicBaseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("photos: root dir required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("photos: create root dir: %w", err)
	}
	return &Store{
		root:      root,
		publicURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}, nil
}

// Root expone el directorio para montar el file server.
func (s *Store) Root() string { return s.root }

func (s *Store) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(data) == 0 {
		return "", errors.New("photos: key and data required")
	}

	// key viene de la app (uuid + extensión), pero igual evitamos escapes del root
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.New("photos: invalid key")
	}

	full := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("photos: create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("photos: write file: %w", err)
	}

	return s.publicURL + "/uploads/" + filepath.ToSlash(clean), nil
}
