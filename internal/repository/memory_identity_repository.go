package repository

import (
	"context"
	"sync"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// memoryIdentityRepository provides an in-memory implementation of
// IdentityRepository for tests and single-instance development.
type memoryIdentityRepository struct {
	identities map[string]*domain.Identity
	mutex      sync.RWMutex
}

// NewMemoryIdentityRepository creates a new in-memory identity repository.
func NewMemoryIdentityRepository() IdentityRepository {
	return &memoryIdentityRepository{
		identities: make(map[string]*domain.Identity),
	}
}

// Upsert creates or overwrites the identity binding
func (r *memoryIdentityRepository) Upsert(_ context.Context, identity *domain.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	clone := *identity
	r.identities[identity.ChatUserID] = &clone
	return nil
}

// GetByChatUserID retrieves an identity binding by chat user ID
func (r *memoryIdentityRepository) GetByChatUserID(_ context.Context, chatUserID string) (*domain.Identity, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	identity, exists := r.identities[chatUserID]
	if !exists {
		return nil, domain.NewNotFoundError("IDENTITY_NOT_FOUND", "No linked identity for chat user")
	}

	clone := *identity
	return &clone, nil
}

// Delete removes an identity binding
func (r *memoryIdentityRepository) Delete(_ context.Context, chatUserID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.identities, chatUserID)
	return nil
}
