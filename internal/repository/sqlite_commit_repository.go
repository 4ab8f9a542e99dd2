package repository

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// sqliteCommitRepository implements CommitRepository on SQLite.
type sqliteCommitRepository struct {
	db *dbx.DB
}

// NewSQLiteCommitRepository creates a new SQLite commit cache.
func NewSQLiteCommitRepository(db *dbx.DB) CommitRepository {
	return &sqliteCommitRepository{db: db}
}

type commitRow struct {
	SHA         string `db:"sha"`
	GitHubLogin string `db:"github_login"`
	Repo        string `db:"repo"`
	Message     string `db:"message"`
	CommittedAt string `db:"committed_at"`
}

// Upsert stores or refreshes a cached commit
func (r *sqliteCommitRepository) Upsert(ctx context.Context, commit *domain.Commit) error {
	if err := commit.Validate(); err != nil {
		return err
	}

	_, err := r.db.NewQuery(`
		INSERT INTO commits (sha, github_login, repo, message, committed_at)
		VALUES ({:sha}, {:github_login}, {:repo}, {:message}, {:committed_at})
		ON CONFLICT (sha, github_login) DO UPDATE SET
			repo = excluded.repo,
			message = excluded.message,
			committed_at = excluded.committed_at`).
		Bind(dbx.Params{
			"sha":          commit.SHA,
			"github_login": commit.GitHubLogin,
			"repo":         commit.Repo,
			"message":      commit.Message,
			"committed_at": formatTime(commit.CommittedAt),
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return domain.NewInternalError("COMMIT_SAVE_FAILED", "Failed to save commit", err)
	}

	return nil
}

// ListByLogin returns cached commits for a login since the given time, newest-first
func (r *sqliteCommitRepository) ListByLogin(ctx context.Context, login string, since time.Time) ([]*domain.Commit, error) {
	var rows []commitRow
	err := r.db.NewQuery(`
		SELECT sha, github_login, repo, message, committed_at
		FROM commits
		WHERE github_login = {:github_login} AND committed_at >= {:since}
		ORDER BY committed_at DESC`).
		Bind(dbx.Params{
			"github_login": login,
			"since":        formatTime(since),
		}).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, domain.NewInternalError("COMMIT_QUERY_FAILED", "Failed to query commits", err)
	}

	result := make([]*domain.Commit, len(rows))
	for i, row := range rows {
		result[i] = &domain.Commit{
			SHA:         row.SHA,
			GitHubLogin: row.GitHubLogin,
			Repo:        row.Repo,
			Message:     row.Message,
			CommittedAt: parseTime(row.CommittedAt),
		}
	}
	return result, nil
}
