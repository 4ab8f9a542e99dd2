package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/validation"
)

// Defaults for the commit lookup window and result size.
const (
	DefaultCommitWindowDays = 7
	DefaultMaxCommitResults = 25
)

// CommitService resolves a chat user to their recent provider commits.
type CommitService struct {
	identities      repository.IdentityRepository
	commitCache     repository.CommitRepository
	lister          ActivityLister
	logger          *slog.Logger
	windowDays      int
	maxResults      int
	providerTimeout time.Duration
}

// NewCommitService creates a new commit service. commitCache may be nil to
// disable caching.
func NewCommitService(
	identities repository.IdentityRepository,
	commitCache repository.CommitRepository,
	lister ActivityLister,
	logger *slog.Logger,
	windowDays, maxResults int,
	providerTimeout time.Duration,
) *CommitService {
	if logger == nil {
		logger = slog.Default()
	}
	if windowDays <= 0 {
		windowDays = DefaultCommitWindowDays
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxCommitResults
	}
	if providerTimeout <= 0 {
		providerTimeout = 15 * time.Second
	}
	return &CommitService{
		identities:      identities,
		commitCache:     commitCache,
		lister:          lister,
		logger:          logger,
		windowDays:      windowDays,
		maxResults:      maxResults,
		providerTimeout: providerTimeout,
	}
}

// ListRecentCommits returns the user's commits from the trailing window,
// deduplicated by SHA, newest-first, capped at the configured maximum. An
// empty result is valid: it means no recent public activity, not an error.
func (s *CommitService) ListRecentCommits(ctx context.Context, chatUserID string) ([]*domain.Commit, error) {
	if !validation.IsChatUserID(chatUserID) {
		return nil, domain.NewValidationError("INVALID_CHAT_USER_ID", "Chat user ID is malformed", nil)
	}

	identity, err := s.identities.GetByChatUserID(ctx, chatUserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError(domain.CodeNotLinked, "Chat user has no linked identity")
		}
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -s.windowDays)

	listCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	fetched, err := s.lister.ListRecentCommits(listCtx, identity.GitHubLogin, since)
	if err != nil {
		return nil, err
	}

	commits := dedupeAndSort(fetched, since, s.maxResults)
	s.cacheCommits(ctx, commits)
	return commits, nil
}

// cacheCommits stores fetched commits best-effort; a cache failure never
// fails a lookup.
func (s *CommitService) cacheCommits(ctx context.Context, commits []*domain.Commit) {
	if s.commitCache == nil {
		return
	}
	for _, commit := range commits {
		if err := s.commitCache.Upsert(ctx, commit); err != nil {
			s.logger.Warn("failed to cache commit",
				slog.String("sha", commit.SHA),
				slog.String("error", err.Error()))
			return
		}
	}
}

// dedupeAndSort keeps the first occurrence per SHA (the feed is roughly
// newest-first, so that is the freshest sighting), drops anything outside the
// window, sorts newest-first and truncates.
func dedupeAndSort(fetched []*domain.Commit, since time.Time, maxResults int) []*domain.Commit {
	seen := make(map[string]bool, len(fetched))
	commits := make([]*domain.Commit, 0, len(fetched))
	for _, commit := range fetched {
		if commit.CommittedAt.Before(since) || seen[commit.SHA] {
			continue
		}
		seen[commit.SHA] = true
		commits = append(commits, commit)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].CommittedAt.After(commits[j].CommittedAt)
	})

	if len(commits) > maxResults {
		commits = commits[:maxResults]
	}
	return commits
}
