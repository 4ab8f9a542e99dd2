package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

func TestMemoryIdentityRepository(t *testing.T) {
	t.Run("UpsertAndGet", func(t *testing.T) {
		repo := NewMemoryIdentityRepository()
		ctx := context.Background()

		identity := &domain.Identity{
			ChatUserID:  "123456789012345678",
			GitHubLogin: "octocat",
			VerifiedAt:  time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, identity))

		retrieved, err := repo.GetByChatUserID(ctx, "123456789012345678")
		require.NoError(t, err)
		assert.Equal(t, "octocat", retrieved.GitHubLogin)
	})

	t.Run("UpsertOverwritesExistingLink", func(t *testing.T) {
		repo := NewMemoryIdentityRepository()
		ctx := context.Background()

		first := &domain.Identity{ChatUserID: "123456789012345678", GitHubLogin: "octocat", VerifiedAt: time.Now().Add(-time.Hour)}
		require.NoError(t, repo.Upsert(ctx, first))

		second := &domain.Identity{ChatUserID: "123456789012345678", GitHubLogin: "hubber", VerifiedAt: time.Now()}
		require.NoError(t, repo.Upsert(ctx, second))

		retrieved, err := repo.GetByChatUserID(ctx, "123456789012345678")
		require.NoError(t, err)
		assert.Equal(t, "hubber", retrieved.GitHubLogin)
	})

	t.Run("GetUnlinkedUser", func(t *testing.T) {
		repo := NewMemoryIdentityRepository()

		_, err := repo.GetByChatUserID(context.Background(), "876543210987654321")
		require.Error(t, err)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.NotFoundError, domainErr.Type)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewMemoryIdentityRepository()
		ctx := context.Background()

		identity := &domain.Identity{ChatUserID: "123456789012345678", GitHubLogin: "octocat", VerifiedAt: time.Now()}
		require.NoError(t, repo.Upsert(ctx, identity))

		require.NoError(t, repo.Delete(ctx, "123456789012345678"))
		_, err := repo.GetByChatUserID(ctx, "123456789012345678")
		assert.Error(t, err)

		// Deleting again is a no-op.
		assert.NoError(t, repo.Delete(ctx, "123456789012345678"))
	})
}
