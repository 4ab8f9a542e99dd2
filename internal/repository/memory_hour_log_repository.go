package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/google/uuid"
)

// memoryHourLogRepository provides an in-memory implementation of
// HourLogRepository. The duplicate check and the insert happen under one
// write lock, so concurrent calls for the same (user, commit) pair yield
// exactly one success.
type memoryHourLogRepository struct {
	byPair map[string]*domain.HourLog
	byUser map[string][]*domain.HourLog
	mutex  sync.RWMutex
}

// NewMemoryHourLogRepository creates a new in-memory hour log repository.
func NewMemoryHourLogRepository() HourLogRepository {
	return &memoryHourLogRepository{
		byPair: make(map[string]*domain.HourLog),
		byUser: make(map[string][]*domain.HourLog),
	}
}

func pairKey(chatUserID, commitSHA string) string {
	return chatUserID + "\x00" + commitSHA
}

// Create inserts a new hour log, rejecting duplicates atomically
func (r *memoryHourLogRepository) Create(_ context.Context, log *domain.HourLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := pairKey(log.ChatUserID, log.CommitSHA)
	if _, exists := r.byPair[key]; exists {
		return domain.NewConflictError(domain.CodeDuplicateLog, "Hours already logged for this commit")
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	clone := *log
	r.byPair[key] = &clone
	r.byUser[log.ChatUserID] = append(r.byUser[log.ChatUserID], &clone)
	return nil
}

// ListByChatUserID returns up to limit logs, newest-first
func (r *memoryHourLogRepository) ListByChatUserID(_ context.Context, chatUserID string, limit int) ([]*domain.HourLog, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	logs := r.byUser[chatUserID]
	result := make([]*domain.HourLog, len(logs))
	for i, log := range logs {
		clone := *log
		result[i] = &clone
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoggedAt.After(result[j].LoggedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetLatestByChatUserID returns the most recent hour log for a user
func (r *memoryHourLogRepository) GetLatestByChatUserID(ctx context.Context, chatUserID string) (*domain.HourLog, error) {
	logs, err := r.ListByChatUserID(ctx, chatUserID, 1)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, domain.NewNotFoundError("HOUR_LOG_NOT_FOUND", "No hour logs for chat user")
	}
	return logs[0], nil
}
