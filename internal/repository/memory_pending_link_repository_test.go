package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

func testPendingLink(token, chatUserID string, ttl time.Duration) *domain.PendingLink {
	now := time.Now()
	return &domain.PendingLink{
		Token:      token,
		ChatUserID: chatUserID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
}

func TestMemoryPendingLinkRepository(t *testing.T) {
	t.Run("CreateAndConsume", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()
		ctx := context.Background()

		link := testPendingLink("state-token-aaaaaaaaaaaaaaaaaaaa", "123456789012345678", time.Hour)
		require.NoError(t, repo.Create(ctx, link))

		consumed, err := repo.Consume(ctx, link.Token)
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678", consumed.ChatUserID)
	})

	t.Run("ConsumeIsSingleUse", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()
		ctx := context.Background()

		link := testPendingLink("state-token-bbbbbbbbbbbbbbbbbbbb", "123456789012345678", time.Hour)
		require.NoError(t, repo.Create(ctx, link))

		_, err := repo.Consume(ctx, link.Token)
		require.NoError(t, err)

		_, err = repo.Consume(ctx, link.Token)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
	})

	t.Run("ConsumeUnknownToken", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()

		_, err := repo.Consume(context.Background(), "never-issued-token-aaaaaaaaaa")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
	})

	t.Run("ConsumeExpiredToken", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()
		ctx := context.Background()

		link := testPendingLink("state-token-cccccccccccccccccccc", "123456789012345678", -time.Minute)
		require.NoError(t, repo.Create(ctx, link))

		_, err := repo.Consume(ctx, link.Token)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeTokenExpired))

		// Expired tokens are still burned on first redemption.
		_, err = repo.Consume(ctx, link.Token)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
	})

	t.Run("ConcurrentConsumeSingleSuccess", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()
		ctx := context.Background()

		link := testPendingLink("state-token-dddddddddddddddddddd", "123456789012345678", time.Hour)
		require.NoError(t, repo.Create(ctx, link))

		const workers = 20
		var wg sync.WaitGroup
		successes := make(chan struct{}, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Consume(ctx, link.Token); err == nil {
					successes <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(successes)

		assert.Len(t, successes, 1, "exactly one consumer should win")
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		repo := NewMemoryPendingLinkRepository()
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			link := testPendingLink(fmt.Sprintf("expired-token-%d-aaaaaaaaaaaaa", i), "123456789012345678", -time.Minute)
			require.NoError(t, repo.Create(ctx, link))
		}
		fresh := testPendingLink("fresh-token-aaaaaaaaaaaaaaaaaaaa", "123456789012345678", time.Hour)
		require.NoError(t, repo.Create(ctx, fresh))

		require.NoError(t, repo.DeleteExpired(ctx))

		consumed, err := repo.Consume(ctx, fresh.Token)
		require.NoError(t, err)
		assert.Equal(t, fresh.ChatUserID, consumed.ChatUserID)
	})
}
