// Package domain provides core business entities for the volunteer tracker.
package domain

import (
	"time"
)

// Identity is the persistent binding between a chat user and a verified
// GitHub login. Re-linking overwrites the previous binding.
type Identity struct {
	ChatUserID  string    `json:"chat_user_id" db:"chat_user_id"`
	GitHubLogin string    `json:"github_login" db:"github_login"`
	VerifiedAt  time.Time `json:"verified_at" db:"verified_at"`
}

// Validate validates the Identity
func (i *Identity) Validate() error {
	if i.ChatUserID == "" {
		return NewValidationError("chat_user_id", "Chat user ID is required", nil)
	}
	if i.GitHubLogin == "" {
		return NewValidationError("github_login", "GitHub login is required", nil)
	}
	return nil
}
