package identity

import (
	"context"
	"sync"
)

// MemoryRepo keeps credential hashes in process memory. The default backend
// for single-instance deployments and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	hashes map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{hashes: make(map[string]string)}
}

func (r *MemoryRepo) SaveCredential(_ context.Context, connectionId, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hashes[connectionId]; exists {
		return ErrDuplicateConnectionId
	}
	r.hashes[connectionId] = passwordHash
	return nil
}

func (r *MemoryRepo) GetPasswordHash(_ context.Context, connectionId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hash, exists := r.hashes[connectionId]
	if !exists {
		return "", ErrConnectionNotFound
	}
	return hash, nil
}

func (r *MemoryRepo) DeleteCredential(_ context.Context, connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hashes[connectionId]; !exists {
		return ErrConnectionNotFound
	}
	delete(r.hashes, connectionId)
	return nil
}
