package repository

import (
	"context"
	"slices"
	"sync"
)

type memoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryDocumentRepository returns a process-local repository.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{docs: make(map[string][]byte)}
}

func (r *memoryDocumentRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	body, ok := r.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return slices.Clone(body), nil
}

func (r *memoryDocumentRepository) Put(_ context.Context, key string, _ int, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[key] = slices.Clone(body)
	return nil
}

func (r *memoryDocumentRepository) Ping(context.Context) error { return nil }

func (r *memoryDocumentRepository) Name() string { return "memory" }
