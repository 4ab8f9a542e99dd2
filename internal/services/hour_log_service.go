package services

import (
	"context"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/validation"
)

// HourLogService records and reads self-reported volunteer hours.
type HourLogService struct {
	identities repository.IdentityRepository
	hourLogs   repository.HourLogRepository
}

// NewHourLogService creates a new hour log service.
func NewHourLogService(
	identities repository.IdentityRepository,
	hourLogs repository.HourLogRepository,
) *HourLogService {
	return &HourLogService{
		identities: identities,
		hourLogs:   hourLogs,
	}
}

// HistoryResult is a page of hour logs plus the total hours across them.
type HistoryResult struct {
	Logs       []*domain.HourLog `json:"logs"`
	TotalHours float64           `json:"total_hours"`
}

// LogHours records hours against a commit for a linked chat user. The record
// either lands whole or not at all; a second log for the same (user, commit)
// pair fails with DUPLICATE_LOG and changes nothing.
func (s *HourLogService) LogHours(ctx context.Context, chatUserID, commitSHA string, hours float64) (*domain.HourLog, error) {
	if !validation.IsChatUserID(chatUserID) {
		return nil, domain.NewValidationError("INVALID_CHAT_USER_ID", "Chat user ID is malformed", nil)
	}
	if !validation.IsCommitSHA(commitSHA) {
		return nil, domain.NewValidationError("INVALID_COMMIT_SHA", "Commit SHA is malformed", nil)
	}
	if err := domain.ValidateHours(hours); err != nil {
		return nil, err
	}

	if _, err := s.identities.GetByChatUserID(ctx, chatUserID); err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError(domain.CodeNotLinked, "Chat user has no linked identity")
		}
		return nil, err
	}

	log := &domain.HourLog{
		ChatUserID: chatUserID,
		CommitSHA:  commitSHA,
		Hours:      hours,
		LoggedAt:   time.Now(),
	}
	if err := s.hourLogs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// History returns up to limit recent logs, newest-first, with total hours.
// The limit is clamped to the supported range rather than rejected.
func (s *HourLogService) History(ctx context.Context, chatUserID string, limit int) (*HistoryResult, error) {
	if !validation.IsChatUserID(chatUserID) {
		return nil, domain.NewValidationError("INVALID_CHAT_USER_ID", "Chat user ID is malformed", nil)
	}

	logs, err := s.hourLogs.ListByChatUserID(ctx, chatUserID, domain.ClampHistoryLimit(limit))
	if err != nil {
		return nil, err
	}

	var total float64
	for _, log := range logs {
		total += log.Hours
	}
	return &HistoryResult{Logs: logs, TotalHours: total}, nil
}

// LastLoggedAt returns when the user last logged hours, for caller-side
// cooldown policy. ok is false when the user has never logged.
func (s *HourLogService) LastLoggedAt(ctx context.Context, chatUserID string) (time.Time, bool, error) {
	latest, err := s.hourLogs.GetLatestByChatUserID(ctx, chatUserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return latest.LoggedAt, true, nil
}
