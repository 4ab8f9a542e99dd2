package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
	"github.com/ericfisherdev/volunteer-tracker/internal/services"
)

// HoursHandler handles commit candidates and hour log endpoints.
type HoursHandler struct {
	commitService  *services.CommitService
	hourLogService *services.HourLogService
}

// NewHoursHandler creates a new hours handler.
func NewHoursHandler(commitService *services.CommitService, hourLogService *services.HourLogService) *HoursHandler {
	return &HoursHandler{
		commitService:  commitService,
		hourLogService: hourLogService,
	}
}

// RegisterRoutes registers commit and hour log routes.
func (h *HoursHandler) RegisterRoutes(router *gin.Engine) {
	users := router.Group("/api/users")
	{
		users.GET("/:id/commits", h.ListCommits)
		users.POST("/:id/logs", h.LogHours)
		users.GET("/:id/logs", h.History)
	}
}

// ListCommits returns the user's recent commit candidates.
func (h *HoursHandler) ListCommits(c *gin.Context) {
	chatUserID := c.Param("id")

	commits, err := h.commitService.ListRecentCommits(c.Request.Context(), chatUserID)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	SuccessResponse(c, gin.H{
		"commits": commits,
		"count":   len(commits),
	})
}

// logHoursRequest is the POST body for recording hours.
type logHoursRequest struct {
	CommitSHA string  `json:"commit_sha"`
	Hours     float64 `json:"hours"`
}

// LogHours records hours against one commit.
func (h *HoursHandler) LogHours(c *gin.Context) {
	chatUserID := c.Param("id")

	var req logHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SanitizedErrorResponse(c, domain.NewValidationError("INVALID_REQUEST_BODY", "Request body must be JSON with commit_sha and hours", nil))
		return
	}

	log, err := h.hourLogService.LogHours(c.Request.Context(), chatUserID, req.CommitSHA, req.Hours)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	CreatedResponse(c, log)
}

// History returns recent hour logs with the running total.
func (h *HoursHandler) History(c *gin.Context) {
	chatUserID := c.Param("id")

	// A missing or malformed limit falls back to the maximum page; out-of-range
	// values are clamped, never rejected.
	limit := domain.HistoryLimitMax
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	history, err := h.hourLogService.History(c.Request.Context(), chatUserID, limit)
	if err != nil {
		SanitizedErrorResponse(c, err)
		return
	}

	SuccessResponse(c, history)
}
