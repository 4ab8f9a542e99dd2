package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingLinkExpiry(t *testing.T) {
	t.Run("FreshTokenNotExpired", func(t *testing.T) {
		link := &PendingLink{
			Token:      "state-token",
			ChatUserID: "123456789012345678",
			IssuedAt:   time.Now(),
			ExpiresAt:  time.Now().Add(DefaultStateTTL),
		}
		assert.False(t, link.IsExpired())
	})

	t.Run("PastExpiryIsExpired", func(t *testing.T) {
		link := &PendingLink{
			Token:      "state-token",
			ChatUserID: "123456789012345678",
			IssuedAt:   time.Now().Add(-time.Hour),
			ExpiresAt:  time.Now().Add(-time.Minute),
		}
		assert.True(t, link.IsExpired())
	})
}

func TestPendingLinkValidate(t *testing.T) {
	link := &PendingLink{
		Token:      "state-token",
		ChatUserID: "123456789012345678",
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Minute),
	}
	require.NoError(t, link.Validate())

	link.Token = ""
	assert.Error(t, link.Validate())

	link.Token = "state-token"
	link.ChatUserID = ""
	assert.Error(t, link.Validate())
}
