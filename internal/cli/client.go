package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// APIClient handles communication with the volunteer tracker API
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewAPIClientFromProfile creates an API client from a profile
func NewAPIClientFromProfile(profile *Profile) *APIClient {
	if profile == nil {
		return nil
	}
	return NewAPIClient(profile.ServerURL)
}

// APIError represents an API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs an HTTP request against the API
func (c *APIClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// handleResponse unwraps the response envelope into result and maps error
// payloads to APIError. The response body is closed here.
func (c *APIClient) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if unmarshalErr := json.Unmarshal(body, &env); unmarshalErr != nil || (resp.StatusCode >= 400 && env.Error == nil) {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return fmt.Errorf("failed to parse response: %s", string(body))
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// Health checks the API health
func (c *APIClient) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "service unhealthy"}
	}
	return nil
}

// LinkURL returns the OAuth start URL for the chat user to open in a browser.
func (c *APIClient) LinkURL(chatUserID string) (string, error) {
	base, err := url.JoinPath(c.BaseURL, "/oauth/start")
	if err != nil {
		return "", fmt.Errorf("failed to build link URL: %w", err)
	}
	return base + "?chat_user_id=" + url.QueryEscape(chatUserID), nil
}

// StatusResult mirrors the status endpoint payload.
type StatusResult struct {
	ChatUserID        string    `json:"chat_user_id"`
	GitHubLogin       string    `json:"github_login"`
	VerifiedAt        time.Time `json:"verified_at"`
	RecentCommitCount *int      `json:"recent_commit_count,omitempty"`
}

// GetStatus retrieves the link status for a chat user.
func (c *APIClient) GetStatus(ctx context.Context, chatUserID string) (*StatusResult, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(chatUserID)+"/status", nil)
	if err != nil {
		return nil, err
	}

	var status StatusResult
	if err := c.handleResponse(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Unlink removes the chat user's identity binding.
func (c *APIClient) Unlink(ctx context.Context, chatUserID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(chatUserID)+"/link", nil)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, nil)
}

// commitList mirrors the commits endpoint payload.
type commitList struct {
	Commits []*domain.Commit `json:"commits"`
	Count   int              `json:"count"`
}

// GetCommits retrieves recent commit candidates for a chat user.
func (c *APIClient) GetCommits(ctx context.Context, chatUserID string) ([]*domain.Commit, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(chatUserID)+"/commits", nil)
	if err != nil {
		return nil, err
	}

	var list commitList
	if err := c.handleResponse(resp, &list); err != nil {
		return nil, err
	}
	return list.Commits, nil
}

// LogHours records hours against a commit.
func (c *APIClient) LogHours(ctx context.Context, chatUserID, commitSHA string, hours float64) (*domain.HourLog, error) {
	req := map[string]interface{}{
		"commit_sha": commitSHA,
		"hours":      hours,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users/"+url.PathEscape(chatUserID)+"/logs", req)
	if err != nil {
		return nil, err
	}

	var log domain.HourLog
	if err := c.handleResponse(resp, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// HistoryResult mirrors the history endpoint payload.
type HistoryResult struct {
	Logs       []*domain.HourLog `json:"logs"`
	TotalHours float64           `json:"total_hours"`
}

// GetHistory retrieves recent hour logs with the running total.
func (c *APIClient) GetHistory(ctx context.Context, chatUserID string, limit int) (*HistoryResult, error) {
	endpoint := "/api/users/" + url.PathEscape(chatUserID) + "/logs"
	if limit > 0 {
		endpoint += fmt.Sprintf("?limit=%d", limit)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var history HistoryResult
	if err := c.handleResponse(resp, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
