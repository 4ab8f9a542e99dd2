package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/volunteer-tracker/internal/services"
)

// LinkHandler handles the OAuth link flow and identity endpoints.
type LinkHandler struct {
	linkService   *services.LinkService
	commitService *services.CommitService
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(linkService *services.LinkService, commitService *services.CommitService) *LinkHandler {
	return &LinkHandler{
		linkService:   linkService,
		commitService: commitService,
	}
}

// RegisterRoutes registers the OAuth flow and identity routes.
func (h *LinkHandler) RegisterRoutes(router *gin.Engine, oauthMiddleware ...gin.HandlerFunc) {
	oauth := router.Group("/oauth")
	oauth.Use(oauthMiddleware...)
	{
		oauth.GET("/start", h.StartLink)
		oauth.GET("/callback", h.CompleteLink)
	}

	users := router.Group("/api/users")
	{
		users.GET("/:id/status", h.Status)
		users.DELETE("/:id/link", h.Unlink)
	}
}

// StartLink issues a state token and redirects the user to the provider's
// authorization page.
func (h *LinkHandler) StartLink(c *gin.Context) {
	chatUserID := c.Query("chat_user_id")

	authURL, err := h.linkService.InitiateLink(c.Request.Context(), chatUserID)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// CompleteLink handles the provider redirect. The response is a plain page
// for the human who just authorized, not an API client.
func (h *LinkHandler) CompleteLink(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	identity, err := h.linkService.CompleteLink(c.Request.Context(), code, state)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	c.String(http.StatusOK,
		fmt.Sprintf("GitHub account %q linked successfully. You can close this tab and return to chat.", identity.GitHubLogin))
}

// Status reports the identity binding and, best-effort, recent activity.
func (h *LinkHandler) Status(c *gin.Context) {
	chatUserID := c.Param("id")

	identity, err := h.linkService.Status(c.Request.Context(), chatUserID)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	data := gin.H{
		"chat_user_id": identity.ChatUserID,
		"github_login": identity.GitHubLogin,
		"verified_at":  identity.VerifiedAt,
	}

	// A provider hiccup must not take down status reporting.
	if commits, err := h.commitService.ListRecentCommits(c.Request.Context(), chatUserID); err == nil {
		data["recent_commit_count"] = len(commits)
	}

	SuccessResponse(c, data)
}

// Unlink removes the identity binding.
func (h *LinkHandler) Unlink(c *gin.Context) {
	chatUserID := c.Param("id")

	if err := h.linkService.Unlink(c.Request.Context(), chatUserID); err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	SuccessResponse(c, gin.H{"unlinked": true})
}
