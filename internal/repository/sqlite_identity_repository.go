package repository

import (
	"context"

	"github.com/pocketbase/dbx"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// sqliteIdentityRepository implements IdentityRepository on SQLite.
type sqliteIdentityRepository struct {
	db *dbx.DB
}

// NewSQLiteIdentityRepository creates a new SQLite identity repository.
func NewSQLiteIdentityRepository(db *dbx.DB) IdentityRepository {
	return &sqliteIdentityRepository{db: db}
}

type identityRow struct {
	ChatUserID  string `db:"chat_user_id"`
	GitHubLogin string `db:"github_login"`
	VerifiedAt  string `db:"verified_at"`
}

// Upsert creates or overwrites the identity binding.
func (r *sqliteIdentityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	_, err := r.db.NewQuery(`
		INSERT INTO identities (chat_user_id, github_login, verified_at)
		VALUES ({:chat_user_id}, {:github_login}, {:verified_at})
		ON CONFLICT (chat_user_id) DO UPDATE SET
			github_login = excluded.github_login,
			verified_at = excluded.verified_at`).
		Bind(dbx.Params{
			"chat_user_id": identity.ChatUserID,
			"github_login": identity.GitHubLogin,
			"verified_at":  formatTime(identity.VerifiedAt),
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return domain.NewInternalError("IDENTITY_SAVE_FAILED", "Failed to save identity", err)
	}

	return nil
}

// GetByChatUserID retrieves the identity binding for a chat user.
func (r *sqliteIdentityRepository) GetByChatUserID(ctx context.Context, chatUserID string) (*domain.Identity, error) {
	var row identityRow
	err := r.db.NewQuery(`
		SELECT chat_user_id, github_login, verified_at
		FROM identities
		WHERE chat_user_id = {:chat_user_id}`).
		Bind(dbx.Params{"chat_user_id": chatUserID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.NewNotFoundError("IDENTITY_NOT_FOUND", "No linked identity for chat user")
		}
		return nil, domain.NewInternalError("IDENTITY_QUERY_FAILED", "Failed to query identity", err)
	}

	return &domain.Identity{
		ChatUserID:  row.ChatUserID,
		GitHubLogin: row.GitHubLogin,
		VerifiedAt:  parseTime(row.VerifiedAt),
	}, nil
}

// Delete removes the identity binding. Absent bindings are not an error.
func (r *sqliteIdentityRepository) Delete(ctx context.Context, chatUserID string) error {
	_, err := r.db.NewQuery(`DELETE FROM identities WHERE chat_user_id = {:chat_user_id}`).
		Bind(dbx.Params{"chat_user_id": chatUserID}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return domain.NewInternalError("IDENTITY_DELETE_FAILED", "Failed to delete identity", err)
	}
	return nil
}
