// Package validation provides input-format validation utilities.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Chat user IDs are Discord snowflakes: 17-19 decimal digits.
	chatUserIDPattern = regexp.MustCompile(`^\d{17,19}$`)

	// GitHub usernames: 1-39 chars, alphanumeric and hyphens, no leading,
	// trailing, or consecutive hyphens.
	githubLoginPattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9]|-[a-zA-Z0-9]){0,38}$`)

	// Git commit SHAs: 7-40 hex digits (abbreviated or full).
	commitSHAPattern = regexp.MustCompile(`^[a-fA-F0-9]{7,40}$`)

	// State tokens are base64 URL-safe strings of reasonable length.
	stateTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// IsChatUserID reports whether s looks like a valid chat user ID.
func IsChatUserID(s string) bool {
	return chatUserIDPattern.MatchString(s)
}

// IsGitHubLogin reports whether s is a well-formed GitHub username.
func IsGitHubLogin(s string) bool {
	if len(s) > 39 {
		return false
	}
	return githubLoginPattern.MatchString(s)
}

// IsCommitSHA reports whether s is a well-formed git commit SHA.
func IsCommitSHA(s string) bool {
	return commitSHAPattern.MatchString(s)
}

// IsStateToken reports whether s has the shape of an issued state token.
// This is a format check only; redemption is decided by the store.
func IsStateToken(s string) bool {
	return stateTokenPattern.MatchString(s)
}

// SanitizeString strips control characters from provider-sourced text and
// truncates it to at most maxLength bytes, never splitting a rune.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	sanitized := controlCharPattern.ReplaceAllString(s, "")
	sanitized = strings.TrimSpace(sanitized)
	if maxLength > 0 && len(sanitized) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut]
	}
	return sanitized
}
