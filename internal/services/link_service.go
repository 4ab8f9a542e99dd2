package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/repository"
	"github.com/ericfisherdev/volunteer-tracker/internal/validation"
)

// LinkService owns the identity-link workflow: issuing state tokens, the
// OAuth callback, status, and unlinking.
type LinkService struct {
	identities      repository.IdentityRepository
	pendingLinks    repository.PendingLinkRepository
	provider        OAuthProvider
	stateTTL        time.Duration
	providerTimeout time.Duration
}

// NewLinkService creates a new link service. Zero ttl/timeout fall back to
// sensible defaults.
func NewLinkService(
	identities repository.IdentityRepository,
	pendingLinks repository.PendingLinkRepository,
	provider OAuthProvider,
	stateTTL time.Duration,
	providerTimeout time.Duration,
) *LinkService {
	if stateTTL <= 0 {
		stateTTL = domain.DefaultStateTTL
	}
	if providerTimeout <= 0 {
		providerTimeout = 15 * time.Second
	}
	return &LinkService{
		identities:      identities,
		pendingLinks:    pendingLinks,
		provider:        provider,
		stateTTL:        stateTTL,
		providerTimeout: providerTimeout,
	}
}

// InitiateLink issues a single-use state token for the chat user and returns
// the provider authorization URL to send them to.
func (s *LinkService) InitiateLink(ctx context.Context, chatUserID string) (string, error) {
	if !validation.IsChatUserID(chatUserID) {
		return "", domain.NewValidationError("INVALID_CHAT_USER_ID", "Chat user ID is malformed", nil)
	}

	state, err := generateStateToken()
	if err != nil {
		return "", domain.NewInternalError("STATE_GENERATION_FAILED", "Failed to generate state token", err)
	}

	now := time.Now()
	link := &domain.PendingLink{
		Token:      state,
		ChatUserID: chatUserID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.stateTTL),
	}
	if err := s.pendingLinks.Create(ctx, link); err != nil {
		return "", err
	}

	return s.provider.AuthCodeURL(state), nil
}

// CompleteLink handles the OAuth callback. The state token is consumed before
// any provider call, so an invalid or expired token fails without network
// traffic and a token can never complete two links.
func (s *LinkService) CompleteLink(ctx context.Context, code, state string) (*domain.Identity, error) {
	if code == "" {
		return nil, domain.NewValidationError("MISSING_CODE", "Authorization code is required", nil)
	}
	if !validation.IsStateToken(state) {
		return nil, domain.NewAuthenticationError(domain.CodeInvalidToken, "State token is invalid or already used")
	}

	link, err := s.pendingLinks.Consume(ctx, state)
	if err != nil {
		return nil, err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	login, err := s.provider.ExchangeUser(exchangeCtx, code)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		ChatUserID:  link.ChatUserID,
		GitHubLogin: login,
		VerifiedAt:  time.Now(),
	}
	if err := s.identities.Upsert(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// Status returns the identity binding for a chat user, or a NOT_LINKED error.
func (s *LinkService) Status(ctx context.Context, chatUserID string) (*domain.Identity, error) {
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
	return identity, nil
}

// Unlink removes the identity binding. Unlinking an unlinked user succeeds.
func (s *LinkService) Unlink(ctx context.Context, chatUserID string) error {
	if !validation.IsChatUserID(chatUserID) {
		return domain.NewValidationError("INVALID_CHAT_USER_ID", "Chat user ID is malformed", nil)
	}
	return s.identities.Delete(ctx, chatUserID)
}

// CleanupExpiredStates purges expired pending links. Safe to call from a
// periodic sweeper; Consume enforces expiry regardless.
func (s *LinkService) CleanupExpiredStates(ctx context.Context) error {
	return s.pendingLinks.DeleteExpired(ctx)
}

// generateStateToken returns a cryptographically random URL-safe token.
func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
