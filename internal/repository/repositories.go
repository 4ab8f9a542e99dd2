package repository

import (
	"context"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// IdentityRepository owns the Identity lifecycle.
type IdentityRepository interface {
	// Upsert creates or overwrites the binding for identity.ChatUserID.
	Upsert(ctx context.Context, identity *domain.Identity) error
	// GetByChatUserID returns the binding, or a NotFoundError when the user
	// has never linked.
	GetByChatUserID(ctx context.Context, chatUserID string) (*domain.Identity, error)
	// Delete removes the binding. Deleting an absent binding is not an error.
	Delete(ctx context.Context, chatUserID string) error
}

// PendingLinkRepository owns the state-token lifecycle.
type PendingLinkRepository interface {
	// Create stores a new pending link.
	Create(ctx context.Context, link *domain.PendingLink) error
	// Consume atomically looks up and deletes the token. It fails with an
	// INVALID_TOKEN error when the token is absent (including a second
	// redemption attempt) and with TOKEN_EXPIRED when past expiry; the
	// expired record is purged as part of the same operation.
	Consume(ctx context.Context, token string) (*domain.PendingLink, error)
	// DeleteExpired removes all expired pending links. Best-effort; Consume
	// enforces expiry regardless.
	DeleteExpired(ctx context.Context) error
}

// HourLogRepository owns HourLog creation and reads.
type HourLogRepository interface {
	// Create inserts a new log record. The uniqueness check and the insert
	// are a single atomic operation; a second log for the same
	// (chat_user_id, commit_sha) fails with a DUPLICATE_LOG conflict.
	Create(ctx context.Context, log *domain.HourLog) error
	// ListByChatUserID returns up to limit logs, newest-first.
	ListByChatUserID(ctx context.Context, chatUserID string, limit int) ([]*domain.HourLog, error)
	// GetLatestByChatUserID returns the most recent log, or a NotFoundError
	// when the user has never logged. Callers use this for cooldown policy.
	GetLatestByChatUserID(ctx context.Context, chatUserID string) (*domain.HourLog, error)
}

// CommitRepository caches provider commit data across lookups. All methods
// are best-effort from the caller's perspective; a cache failure never fails
// a lookup.
type CommitRepository interface {
	Upsert(ctx context.Context, commit *domain.Commit) error
	ListByLogin(ctx context.Context, login string, since time.Time) ([]*domain.Commit, error)
}
