package domain

import (
	"time"
)

// Commit is an ephemeral view of provider commit data offered as an
// hour-logging candidate. Caching it is permitted but never required.
type Commit struct {
	SHA         string    `json:"sha" db:"sha"`
	GitHubLogin string    `json:"github_login" db:"github_login"`
	Repo        string    `json:"repo" db:"repo"`
	Message     string    `json:"message" db:"message"`
	CommittedAt time.Time `json:"committed_at" db:"committed_at"`
}

// Validate validates the Commit
func (c *Commit) Validate() error {
	if c.SHA == "" {
		return NewValidationError("sha", "Commit SHA is required", nil)
	}
	if c.GitHubLogin == "" {
		return NewValidationError("github_login", "GitHub login is required", nil)
	}
	return nil
}
