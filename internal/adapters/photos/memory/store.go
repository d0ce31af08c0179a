package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Store guarda las fotos en memoria (dev/tests).
type Store struct {
	mu    sync.Mutex
	byKey map[string][]byte
}

func NewStore() *Store {
	return &Store{byKey: make(map[string][]byte)}
}

func (s *Store) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(data) == 0 {
		return "", errors.New("photos: key and data required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = data

	return "mem://photos/" + key, nil
}

func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byKey[key]
	return b, ok
}
