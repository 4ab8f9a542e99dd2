package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// sqliteHourLogRepository implements HourLogRepository on SQLite. The
// duplicate-log guard is the UNIQUE index on (chat_user_id, commit_sha):
// the insert either lands or reports a conflict, with no window in between.
type sqliteHourLogRepository struct {
	db *dbx.DB
}

// NewSQLiteHourLogRepository creates a new SQLite hour log repository.
func NewSQLiteHourLogRepository(db *dbx.DB) HourLogRepository {
	return &sqliteHourLogRepository{db: db}
}

type hourLogRow struct {
	ID         string  `db:"id"`
	ChatUserID string  `db:"chat_user_id"`
	CommitSHA  string  `db:"commit_sha"`
	Hours      float64 `db:"hours"`
	LoggedAt   string  `db:"logged_at"`
}

func (row *hourLogRow) toDomain() *domain.HourLog {
	return &domain.HourLog{
		ID:         row.ID,
		ChatUserID: row.ChatUserID,
		CommitSHA:  row.CommitSHA,
		Hours:      row.Hours,
		LoggedAt:   parseTime(row.LoggedAt),
	}
}

// Create inserts a new hour log, rejecting duplicates atomically
func (r *sqliteHourLogRepository) Create(ctx context.Context, log *domain.HourLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	_, err := r.db.NewQuery(`
		INSERT INTO hour_logs (id, chat_user_id, commit_sha, hours, logged_at)
		VALUES ({:id}, {:chat_user_id}, {:commit_sha}, {:hours}, {:logged_at})`).
		Bind(dbx.Params{
			"id":           log.ID,
			"chat_user_id": log.ChatUserID,
			"commit_sha":   log.CommitSHA,
			"hours":        log.Hours,
			"logged_at":    formatTime(log.LoggedAt),
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateLog, "Hours already logged for this commit")
		}
		return domain.NewInternalError("HOUR_LOG_SAVE_FAILED", "Failed to save hour log", err)
	}

	return nil
}

// ListByChatUserID returns up to limit logs, newest-first
func (r *sqliteHourLogRepository) ListByChatUserID(ctx context.Context, chatUserID string, limit int) ([]*domain.HourLog, error) {
	query := `
		SELECT id, chat_user_id, commit_sha, hours, logged_at
		FROM hour_logs
		WHERE chat_user_id = {:chat_user_id}
		ORDER BY logged_at DESC`
	params := dbx.Params{"chat_user_id": chatUserID}
	if limit > 0 {
		query += ` LIMIT {:limit}`
		params["limit"] = limit
	}

	var rows []hourLogRow
	err := r.db.NewQuery(query).
		Bind(params).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, domain.NewInternalError("HOUR_LOG_QUERY_FAILED", "Failed to query hour logs", err)
	}

	result := make([]*domain.HourLog, len(rows))
	for i := range rows {
		result[i] = rows[i].toDomain()
	}
	return result, nil
}

// GetLatestByChatUserID returns the most recent hour log for a user
func (r *sqliteHourLogRepository) GetLatestByChatUserID(ctx context.Context, chatUserID string) (*domain.HourLog, error) {
	var row hourLogRow
	err := r.db.NewQuery(`
		SELECT id, chat_user_id, commit_sha, hours, logged_at
		FROM hour_logs
		WHERE chat_user_id = {:chat_user_id}
		ORDER BY logged_at DESC
		LIMIT 1`).
		Bind(dbx.Params{"chat_user_id": chatUserID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.NewNotFoundError("HOUR_LOG_NOT_FOUND", "No hour logs for chat user")
		}
		return nil, domain.NewInternalError("HOUR_LOG_QUERY_FAILED", "Failed to query hour logs", err)
	}

	return row.toDomain(), nil
}
