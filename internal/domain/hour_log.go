package domain

import (
	"fmt"
	"time"
)

// Hour policy bounds: a log must satisfy 0 < hours <= MaxLoggableHours.
const MaxLoggableHours = 24.0

// History limit bounds; requested limits are clamped into this range.
const (
	HistoryLimitMin = 1
	HistoryLimitMax = 20
)

// HourLog is an immutable record of self-reported hours against one commit.
// At most one HourLog exists per (chat_user_id, commit_sha) pair.
type HourLog struct {
	ID         string    `json:"id" db:"id"`
	ChatUserID string    `json:"chat_user_id" db:"chat_user_id"`
	CommitSHA  string    `json:"commit_sha" db:"commit_sha"`
	Hours      float64   `json:"hours" db:"hours"`
	LoggedAt   time.Time `json:"logged_at" db:"logged_at"`
}

// Validate validates the HourLog
func (h *HourLog) Validate() error {
	if h.ChatUserID == "" {
		return NewValidationError("chat_user_id", "Chat user ID is required", nil)
	}
	if h.CommitSHA == "" {
		return NewValidationError("commit_sha", "Commit SHA is required", nil)
	}
	return ValidateHours(h.Hours)
}

// ValidateHours rejects hour values outside (0, MaxLoggableHours]. Invalid
// values are never clamped.
func ValidateHours(hours float64) error {
	if hours <= 0 || hours > MaxLoggableHours {
		return NewValidationError("hours",
			fmt.Sprintf("Hours must be greater than 0 and at most %g", MaxLoggableHours),
			map[string]interface{}{"field": "hours"})
	}
	return nil
}

// ClampHistoryLimit folds a requested history limit into [HistoryLimitMin,
// HistoryLimitMax].
func ClampHistoryLimit(limit int) int {
	if limit < HistoryLimitMin {
		return HistoryLimitMin
	}
	if limit > HistoryLimitMax {
		return HistoryLimitMax
	}
	return limit
}
