package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/validation"
)

// OAuthProvider exchanges an authorization code for the authenticated user's
// login. Abstracted so service tests never touch the network.
type OAuthProvider interface {
	// AuthCodeURL builds the provider authorization URL for a state token.
	AuthCodeURL(state string) string
	// ExchangeUser redeems the code and returns the provider login it
	// authenticates.
	ExchangeUser(ctx context.Context, code string) (string, error)
}

// ActivityLister fetches recently pushed commits for a provider login.
type ActivityLister interface {
	ListRecentCommits(ctx context.Context, login string, since time.Time) ([]*domain.Commit, error)
}

// GitHubOAuthProvider implements OAuthProvider against GitHub's OAuth2
// endpoints using the standard authorization-code flow.
type GitHubOAuthProvider struct {
	config *oauth2.Config
}

// NewGitHubOAuthProvider creates a GitHub OAuth provider.
func NewGitHubOAuthProvider(clientID, clientSecret, redirectURL string) *GitHubOAuthProvider {
	return &GitHubOAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     endpoints.GitHub,
		},
	}
}

// AuthCodeURL builds the GitHub authorization URL for a state token.
func (p *GitHubOAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeUser redeems the authorization code and fetches the authenticated
// user's login.
func (p *GitHubOAuthProvider) ExchangeUser(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", domain.NewExternalServiceError(domain.CodeExchangeFailed, "Authorization code exchange failed", err)
	}

	client := github.NewClient(p.config.Client(ctx, token))
	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", domain.NewExternalServiceError(domain.CodeExchangeFailed, "Failed to fetch authenticated user", err)
	}

	login := user.GetLogin()
	if !validation.IsGitHubLogin(login) {
		return "", domain.NewExternalServiceError(domain.CodeExchangeFailed,
			"Provider returned a malformed login", fmt.Errorf("unexpected login %q", validation.SanitizeString(login, 64)))
	}
	return login, nil
}

// GitHubActivityLister implements ActivityLister over the public events feed
// using a read-only token.
type GitHubActivityLister struct {
	client *github.Client
}

// NewGitHubActivityLister creates an activity lister. readToken may be empty,
// in which case unauthenticated rate limits apply.
func NewGitHubActivityLister(readToken string) *GitHubActivityLister {
	client := github.NewClient(nil)
	if readToken != "" {
		client = client.WithAuthToken(readToken)
	}
	return &GitHubActivityLister{client: client}
}

// ListRecentCommits walks the user's public PushEvents and returns the commits
// pushed at or after since. Ordering and deduplication are the caller's
// concern; this returns commits as the feed reports them.
func (l *GitHubActivityLister) ListRecentCommits(ctx context.Context, login string, since time.Time) ([]*domain.Commit, error) {
	opts := &github.ListOptions{PerPage: 100}

	var commits []*domain.Commit
	for {
		events, resp, err := l.client.Activity.ListEventsPerformedByUser(ctx, login, true, opts)
		if err != nil {
			return nil, domain.NewExternalServiceError(domain.CodeProviderError, "Failed to fetch user events", err)
		}

		pastWindow := false
		for _, event := range events {
			createdAt := event.GetCreatedAt().Time
			if createdAt.Before(since) {
				// The feed is newest-first; everything after this is older.
				pastWindow = true
				break
			}
			if event.GetType() != "PushEvent" {
				continue
			}

			payload, err := event.ParsePayload()
			if err != nil {
				continue
			}
			push, ok := payload.(*github.PushEvent)
			if !ok {
				continue
			}

			repo := event.GetRepo().GetName()
			for _, head := range push.Commits {
				commits = append(commits, &domain.Commit{
					SHA:         head.GetSHA(),
					GitHubLogin: login,
					Repo:        repo,
					Message:     validation.SanitizeString(head.GetMessage(), 500),
					CommittedAt: createdAt,
				})
			}
		}

		if pastWindow || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}
