package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/testutil"
)

func newTestCommitService(t *testing.T, lister ActivityLister) (*CommitService, repository.CommitRepository) {
	t.Helper()
	identities := repository.NewMemoryIdentityRepository()
	require.NoError(t, identities.Upsert(context.Background(), &domain.Identity{
		ChatUserID:  testChatUserID,
		GitHubLogin: "octocat",
		VerifiedAt:  time.Now(),
	}))

	cache := repository.NewMemoryCommitRepository()
	svc := NewCommitService(identities, cache, lister, nil, 7, 25, 5*time.Second)
	return svc, cache
}

func TestCommitService_ListRecentCommits(t *testing.T) {
	t.Run("UnlinkedUser", func(t *testing.T) {
		identities := repository.NewMemoryIdentityRepository()
		svc := NewCommitService(identities, nil, &testutil.FakeActivityLister{}, nil, 7, 25, 5*time.Second)

		_, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeNotLinked))
	})

	t.Run("EmptyFeedIsNotAnError", func(t *testing.T) {
		svc, _ := newTestCommitService(t, &testutil.FakeActivityLister{})

		commits, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("WindowDedupOrderAndCap", func(t *testing.T) {
		now := time.Now()
		lister := &testutil.FakeActivityLister{Commits: []*domain.Commit{
			{SHA: "abc123f", GitHubLogin: "octocat", Repo: "octocat/hello", Message: "newest", CommittedAt: now.Add(-1 * time.Hour)},
			{SHA: "abc123f", GitHubLogin: "octocat", Repo: "octocat/hello", Message: "duplicate sighting", CommittedAt: now.Add(-2 * time.Hour)},
			{SHA: "def456a", GitHubLogin: "octocat", Repo: "octocat/hello", Message: "middle", CommittedAt: now.Add(-24 * time.Hour)},
			{SHA: "0123abc", GitHubLogin: "octocat", Repo: "octocat/other", Message: "oldest in window", CommittedAt: now.Add(-6 * 24 * time.Hour)},
			{SHA: "9876fed", GitHubLogin: "octocat", Repo: "octocat/other", Message: "outside window", CommittedAt: now.Add(-8 * 24 * time.Hour)},
		}}
		svc, _ := newTestCommitService(t, lister)

		commits, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.NoError(t, err)
		require.Len(t, commits, 3)
		assert.Equal(t, "abc123f", commits[0].SHA)
		assert.Equal(t, "newest", commits[0].Message, "first sighting wins the dedup")
		assert.Equal(t, "def456a", commits[1].SHA)
		assert.Equal(t, "0123abc", commits[2].SHA)
	})

	t.Run("TruncatesToMaxResults", func(t *testing.T) {
		now := time.Now()
		var feed []*domain.Commit
		for i := 0; i < 40; i++ {
			feed = append(feed, &domain.Commit{
				SHA:         fmt.Sprintf("%07x", i+0x1000000),
				GitHubLogin: "octocat",
				Repo:        "octocat/hello",
				CommittedAt: now.Add(-time.Duration(i) * time.Minute),
			})
		}
		svc, _ := newTestCommitService(t, &testutil.FakeActivityLister{Commits: feed})

		commits, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.NoError(t, err)
		assert.Len(t, commits, 25)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		lister := &testutil.FakeActivityLister{
			Err: domain.NewExternalServiceError(domain.CodeProviderError, "Failed to fetch user events", errors.New("dial tcp: timeout")),
		}
		svc, _ := newTestCommitService(t, lister)

		_, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeProviderError))
	})

	t.Run("ResultsAreCached", func(t *testing.T) {
		now := time.Now()
		lister := &testutil.FakeActivityLister{Commits: []*domain.Commit{
			{SHA: "abc123f", GitHubLogin: "octocat", Repo: "octocat/hello", Message: "fix widget", CommittedAt: now.Add(-time.Hour)},
		}}
		svc, cache := newTestCommitService(t, lister)

		_, err := svc.ListRecentCommits(context.Background(), testChatUserID)
		require.NoError(t, err)

		cached, err := cache.ListByLogin(context.Background(), "octocat", now.Add(-7*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "abc123f", cached[0].SHA)
	})
}
