package repository

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// sqlitePendingLinkRepository implements PendingLinkRepository on SQLite.
// Consume is a single conditional delete so a token can never be redeemed
// twice, even by concurrent callbacks racing on the same state.
type sqlitePendingLinkRepository struct {
	db *dbx.DB
}

// NewSQLitePendingLinkRepository creates a new SQLite pending link repository.
func NewSQLitePendingLinkRepository(db *dbx.DB) PendingLinkRepository {
	return &sqlitePendingLinkRepository{db: db}
}

type pendingLinkRow struct {
	Token      string `db:"token"`
	ChatUserID string `db:"chat_user_id"`
	IssuedAt   string `db:"issued_at"`
	ExpiresAt  string `db:"expires_at"`
}

// Create stores a new pending link.
func (r *sqlitePendingLinkRepository) Create(ctx context.Context, link *domain.PendingLink) error {
	if err := link.Validate(); err != nil {
		return err
	}

	_, err := r.db.NewQuery(`
		INSERT INTO pending_links (token, chat_user_id, issued_at, expires_at)
		VALUES ({:token}, {:chat_user_id}, {:issued_at}, {:expires_at})`).
		Bind(dbx.Params{
			"token":        link.Token,
			"chat_user_id": link.ChatUserID,
			"issued_at":    formatTime(link.IssuedAt),
			"expires_at":   formatTime(link.ExpiresAt),
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return domain.NewInternalError("PENDING_LINK_SAVE_FAILED", "Failed to save pending link", err)
	}

	return nil
}

// Consume atomically redeems and deletes a pending link. The delete and read
// are one statement, so racing consumers never hold overlapping read
// transactions: one wins the row, the rest see it as already gone.
func (r *sqlitePendingLinkRepository) Consume(ctx context.Context, token string) (*domain.PendingLink, error) {
	var row pendingLinkRow
	err := r.db.NewQuery(`
		DELETE FROM pending_links
		WHERE token = {:token}
		RETURNING token, chat_user_id, issued_at, expires_at`).
		Bind(dbx.Params{"token": token}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.NewAuthenticationError(domain.CodeInvalidToken, "State token is invalid or already used")
		}
		return nil, domain.NewInternalError("PENDING_LINK_CONSUME_FAILED", "Failed to consume pending link", err)
	}

	// The record is gone either way; expiry decides the outcome.
	link := &domain.PendingLink{
		Token:      row.Token,
		ChatUserID: row.ChatUserID,
		IssuedAt:   parseTime(row.IssuedAt),
		ExpiresAt:  parseTime(row.ExpiresAt),
	}
	if link.IsExpired() {
		return nil, domain.NewAuthenticationError(domain.CodeTokenExpired, "State token has expired")
	}

	return link, nil
}

// DeleteExpired removes all expired pending links.
func (r *sqlitePendingLinkRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.NewQuery(`DELETE FROM pending_links WHERE expires_at <= {:now}`).
		Bind(dbx.Params{"now": formatTime(time.Now())}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return domain.NewInternalError("PENDING_LINK_CLEANUP_FAILED", "Failed to delete expired pending links", err)
	}
	return nil
}
