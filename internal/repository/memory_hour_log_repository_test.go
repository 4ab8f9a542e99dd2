package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

func TestMemoryHourLogRepository(t *testing.T) {
	t.Run("CreateAndList", func(t *testing.T) {
		repo := NewMemoryHourLogRepository()
		ctx := context.Background()

		log := &domain.HourLog{
			ChatUserID: "123456789012345678",
			CommitSHA:  "abc123f",
			Hours:      2.5,
			LoggedAt:   time.Now(),
		}
		require.NoError(t, repo.Create(ctx, log))
		assert.NotEmpty(t, log.ID, "Create assigns an ID")

		logs, err := repo.ListByChatUserID(ctx, "123456789012345678", 10)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "abc123f", logs[0].CommitSHA)
		assert.InDelta(t, 2.5, logs[0].Hours, 0.0001)
	})

	t.Run("DuplicatePairRejected", func(t *testing.T) {
		repo := NewMemoryHourLogRepository()
		ctx := context.Background()

		first := &domain.HourLog{ChatUserID: "123456789012345678", CommitSHA: "abc123f", Hours: 2.5, LoggedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, first))

		dup := &domain.HourLog{ChatUserID: "123456789012345678", CommitSHA: "abc123f", Hours: 1.0, LoggedAt: time.Now()}
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeDuplicateLog))

		// Same commit by a different user is fine.
		other := &domain.HourLog{ChatUserID: "876543210987654321", CommitSHA: "abc123f", Hours: 1.0, LoggedAt: time.Now()}
		assert.NoError(t, repo.Create(ctx, other))
	})

	t.Run("ConcurrentDuplicateSingleSuccess", func(t *testing.T) {
		repo := NewMemoryHourLogRepository()
		ctx := context.Background()

		const workers = 20
		var wg sync.WaitGroup
		successes := make(chan struct{}, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				log := &domain.HourLog{
					ChatUserID: "123456789012345678",
					CommitSHA:  "def456a",
					Hours:      3.0,
					LoggedAt:   time.Now(),
				}
				if err := repo.Create(ctx, log); err == nil {
					successes <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(successes)

		assert.Len(t, successes, 1, "exactly one insert should win")

		logs, err := repo.ListByChatUserID(ctx, "123456789012345678", 10)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("ListNewestFirstWithLimit", func(t *testing.T) {
		repo := NewMemoryHourLogRepository()
		ctx := context.Background()

		base := time.Now().Add(-time.Hour)
		shas := []string{"aaa1111", "bbb2222", "ccc3333"}
		for i, sha := range shas {
			log := &domain.HourLog{
				ChatUserID: "123456789012345678",
				CommitSHA:  sha,
				Hours:      1.0,
				LoggedAt:   base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, repo.Create(ctx, log))
		}

		logs, err := repo.ListByChatUserID(ctx, "123456789012345678", 2)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "ccc3333", logs[0].CommitSHA)
		assert.Equal(t, "bbb2222", logs[1].CommitSHA)
	})

	t.Run("GetLatest", func(t *testing.T) {
		repo := NewMemoryHourLogRepository()
		ctx := context.Background()

		_, err := repo.GetLatestByChatUserID(ctx, "123456789012345678")
		require.Error(t, err)

		older := &domain.HourLog{ChatUserID: "123456789012345678", CommitSHA: "aaa1111", Hours: 1.0, LoggedAt: time.Now().Add(-time.Hour)}
		newer := &domain.HourLog{ChatUserID: "123456789012345678", CommitSHA: "bbb2222", Hours: 2.0, LoggedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		latest, err := repo.GetLatestByChatUserID(ctx, "123456789012345678")
		require.NoError(t, err)
		assert.Equal(t, "bbb2222", latest.CommitSHA)
	})
}
