package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/testutil"
)

const testChatUserID = "123456789012345678"

func newTestLinkService(provider OAuthProvider) (*LinkService, repository.IdentityRepository, repository.PendingLinkRepository) {
	identities := repository.NewMemoryIdentityRepository()
	pendingLinks := repository.NewMemoryPendingLinkRepository()
	svc := NewLinkService(identities, pendingLinks, provider, 10*time.Minute, 5*time.Second)
	return svc, identities, pendingLinks
}

func stateFromAuthURL(t *testing.T, authURL string) string {
	t.Helper()
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestLinkService_InitiateLink(t *testing.T) {
	t.Run("IssuesStateAndAuthURL", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)

		authURL, err := svc.InitiateLink(context.Background(), testChatUserID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(authURL, "https://github.test/login/oauth/authorize"))

		state := stateFromAuthURL(t, authURL)
		assert.GreaterOrEqual(t, len(state), 20)
	})

	t.Run("EachInitiationGetsAFreshState", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)
		ctx := context.Background()

		first, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		second, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)

		assert.NotEqual(t, stateFromAuthURL(t, first), stateFromAuthURL(t, second))
	})

	t.Run("RejectsMalformedChatUserID", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)

		_, err := svc.InitiateLink(context.Background(), "not-a-snowflake")
		require.Error(t, err)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ValidationError, domainErr.Type)
	})
}

func TestLinkService_CompleteLink(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, identities, _ := newTestLinkService(provider)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL)

		identity, err := svc.CompleteLink(ctx, "auth-code", state)
		require.NoError(t, err)
		assert.Equal(t, testChatUserID, identity.ChatUserID)
		assert.Equal(t, "octocat", identity.GitHubLogin)
		assert.False(t, identity.VerifiedAt.IsZero())

		stored, err := identities.GetByChatUserID(ctx, testChatUserID)
		require.NoError(t, err)
		assert.Equal(t, "octocat", stored.GitHubLogin)
	})

	t.Run("StateIsSingleUse", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL)

		_, err = svc.CompleteLink(ctx, "auth-code", state)
		require.NoError(t, err)

		_, err = svc.CompleteLink(ctx, "auth-code", state)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
	})

	t.Run("UnknownStateFailsBeforeExchange", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)

		_, err := svc.CompleteLink(context.Background(), "auth-code", "never-issued-state-aaaaaaaaaaa")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
		assert.Zero(t, provider.ExchangeCalls(), "no provider call on a bad token")
	})

	t.Run("ExpiredStateFailsBeforeExchange", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		identities := repository.NewMemoryIdentityRepository()
		pendingLinks := repository.NewMemoryPendingLinkRepository()
		svc := NewLinkService(identities, pendingLinks, provider, time.Nanosecond, 5*time.Second)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL)

		time.Sleep(10 * time.Millisecond)

		_, err = svc.CompleteLink(ctx, "auth-code", state)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeTokenExpired))
		assert.Zero(t, provider.ExchangeCalls())
	})

	t.Run("ExchangeFailureBurnsTheToken", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{
			ExchangeErr: domain.NewExternalServiceError(domain.CodeExchangeFailed, "Authorization code exchange failed", errors.New("boom")),
		}
		svc, identities, _ := newTestLinkService(provider)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL)

		_, err = svc.CompleteLink(ctx, "auth-code", state)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeExchangeFailed))

		// The token was consumed even though the exchange failed; no identity
		// was written.
		_, err = svc.CompleteLink(ctx, "auth-code", state)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidToken))
		_, err = identities.GetByChatUserID(ctx, testChatUserID)
		assert.Error(t, err)
	})

	t.Run("RelinkOverwrites", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, identities, _ := newTestLinkService(provider)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		_, err = svc.CompleteLink(ctx, "auth-code", stateFromAuthURL(t, authURL))
		require.NoError(t, err)

		provider.Login = "hubber"
		authURL, err = svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		_, err = svc.CompleteLink(ctx, "auth-code", stateFromAuthURL(t, authURL))
		require.NoError(t, err)

		stored, err := identities.GetByChatUserID(ctx, testChatUserID)
		require.NoError(t, err)
		assert.Equal(t, "hubber", stored.GitHubLogin)
	})
}

func TestLinkService_StatusAndUnlink(t *testing.T) {
	t.Run("StatusUnlinkedUser", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)

		_, err := svc.Status(context.Background(), testChatUserID)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeNotLinked))
	})

	t.Run("UnlinkThenStatus", func(t *testing.T) {
		provider := &testutil.FakeOAuthProvider{Login: "octocat"}
		svc, _, _ := newTestLinkService(provider)
		ctx := context.Background()

		authURL, err := svc.InitiateLink(ctx, testChatUserID)
		require.NoError(t, err)
		_, err = svc.CompleteLink(ctx, "auth-code", stateFromAuthURL(t, authURL))
		require.NoError(t, err)

		identity, err := svc.Status(ctx, testChatUserID)
		require.NoError(t, err)
		assert.Equal(t, "octocat", identity.GitHubLogin)

		require.NoError(t, svc.Unlink(ctx, testChatUserID))
		_, err = svc.Status(ctx, testChatUserID)
		assert.True(t, domain.HasCode(err, domain.CodeNotLinked))

		// Unlinking again is still fine.
		assert.NoError(t, svc.Unlink(ctx, testChatUserID))
	})
}
