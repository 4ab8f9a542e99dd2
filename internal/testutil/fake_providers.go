// Package testutil provides testing utilities and fake provider implementations.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// FakeOAuthProvider implements services.OAuthProvider without touching the
// network. Configure the login (or error) the exchange should yield.
type FakeOAuthProvider struct {
	Login         string
	ExchangeErr   error
	mu            sync.Mutex
	exchangeCalls int
}

// AuthCodeURL returns a deterministic authorize URL carrying the state.
func (f *FakeOAuthProvider) AuthCodeURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + state
}

// ExchangeUser returns the configured login or error and counts the call.
func (f *FakeOAuthProvider) ExchangeUser(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.exchangeCalls++
	f.mu.Unlock()

	if f.ExchangeErr != nil {
		return "", f.ExchangeErr
	}
	return f.Login, nil
}

// ExchangeCalls reports how many times ExchangeUser ran.
func (f *FakeOAuthProvider) ExchangeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exchangeCalls
}

// FakeActivityLister implements services.ActivityLister from a canned commit
// slice.
type FakeActivityLister struct {
	Commits []*domain.Commit
	Err     error
}

// ListRecentCommits returns the canned commits regardless of login or window;
// filtering is the service's job.
func (f *FakeActivityLister) ListRecentCommits(_ context.Context, _ string, _ time.Time) ([]*domain.Commit, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Commits, nil
}
