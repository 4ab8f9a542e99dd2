package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// memoryCommitRepository provides an in-memory commit cache.
type memoryCommitRepository struct {
	commits map[string]*domain.Commit // keyed by sha+login
	mutex   sync.RWMutex
}

// NewMemoryCommitRepository creates a new in-memory commit cache.
func NewMemoryCommitRepository() CommitRepository {
	return &memoryCommitRepository{
		commits: make(map[string]*domain.Commit),
	}
}

// Upsert stores or refreshes a cached commit
func (r *memoryCommitRepository) Upsert(_ context.Context, commit *domain.Commit) error {
	if err := commit.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	clone := *commit
	r.commits[commit.SHA+"\x00"+commit.GitHubLogin] = &clone
	return nil
}

// ListByLogin returns cached commits for a login since the given time, newest-first
func (r *memoryCommitRepository) ListByLogin(_ context.Context, login string, since time.Time) ([]*domain.Commit, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*domain.Commit
	for _, commit := range r.commits {
		if commit.GitHubLogin == login && !commit.CommittedAt.Before(since) {
			clone := *commit
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CommittedAt.After(result[j].CommittedAt)
	})
	return result, nil
}
