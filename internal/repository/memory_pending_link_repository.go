package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// memoryPendingLinkRepository provides an in-memory implementation of
// PendingLinkRepository. Consume holds the write lock for the whole
// lookup-and-delete so a token is redeemable at most once.
type memoryPendingLinkRepository struct {
	links map[string]*domain.PendingLink
	mutex sync.RWMutex
}

// NewMemoryPendingLinkRepository creates a new in-memory pending link repository.
func NewMemoryPendingLinkRepository() PendingLinkRepository {
	return &memoryPendingLinkRepository{
		links: make(map[string]*domain.PendingLink),
	}
}

// Create stores a new pending link
func (r *memoryPendingLinkRepository) Create(_ context.Context, link *domain.PendingLink) error {
	if err := link.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	clone := *link
	r.links[link.Token] = &clone
	return nil
}

// Consume atomically redeems and deletes a pending link
func (r *memoryPendingLinkRepository) Consume(_ context.Context, token string) (*domain.PendingLink, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	link, exists := r.links[token]
	if !exists {
		return nil, domain.NewAuthenticationError(domain.CodeInvalidToken, "State token is invalid or already used")
	}

	// The record is gone either way; expiry decides the outcome.
	delete(r.links, token)

	if link.IsExpired() {
		return nil, domain.NewAuthenticationError(domain.CodeTokenExpired, "State token has expired")
	}

	clone := *link
	return &clone, nil
}

// DeleteExpired removes all expired pending links
func (r *memoryPendingLinkRepository) DeleteExpired(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for token, link := range r.links {
		if link.ExpiresAt.Before(now) {
			delete(r.links, token)
		}
	}

	return nil
}
