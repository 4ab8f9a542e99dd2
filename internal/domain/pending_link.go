package domain

import (
	"time"
)

// DefaultStateTTL is how long a pending link token stays redeemable.
const DefaultStateTTL = 10 * time.Minute

// PendingLink is a single-use state token binding a chat user to an
// in-progress OAuth link attempt. It is deleted on consumption or expiry.
type PendingLink struct {
	Token      string    `json:"-" db:"token"` // Never serialize the raw token
	ChatUserID string    `json:"chat_user_id" db:"chat_user_id"`
	IssuedAt   time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

// Validate validates the PendingLink
func (p *PendingLink) Validate() error {
	if p.Token == "" {
		return NewValidationError("token", "State token is required", nil)
	}
	if p.ChatUserID == "" {
		return NewValidationError("chat_user_id", "Chat user ID is required", nil)
	}
	if p.ExpiresAt.IsZero() {
		return NewValidationError("expires_at", "Expiry is required", nil)
	}
	return nil
}

// IsExpired checks if the token has passed its expiry.
func (p *PendingLink) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}
