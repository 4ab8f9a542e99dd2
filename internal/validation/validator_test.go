package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsChatUserID(t *testing.T) {
	valid := []string{
		"12345678901234567",   // 17 digits
		"123456789012345678",  // 18 digits
		"1234567890123456789", // 19 digits
	}
	for _, id := range valid {
		assert.True(t, IsChatUserID(id), id)
	}

	invalid := []string{
		"",
		"1234567890123456",     // 16 digits
		"12345678901234567890", // 20 digits
		"12345678901234567a",
		"not-a-snowflake",
	}
	for _, id := range invalid {
		assert.False(t, IsChatUserID(id), id)
	}
}

func TestIsGitHubLogin(t *testing.T) {
	valid := []string{"octocat", "a", "mona-lisa", "user123", "0day"}
	for _, login := range valid {
		assert.True(t, IsGitHubLogin(login), login)
	}

	invalid := []string{
		"",
		"-octocat",
		"octocat-",
		"octo--cat",
		"has space",
		strings.Repeat("a", 40),
	}
	for _, login := range invalid {
		assert.False(t, IsGitHubLogin(login), login)
	}
}

func TestIsCommitSHA(t *testing.T) {
	assert.True(t, IsCommitSHA("abc123f"))
	assert.True(t, IsCommitSHA("d6cd1e2bd19e03a81132a23b2025920577f84e37"))
	assert.False(t, IsCommitSHA("abc12"))                // too short
	assert.False(t, IsCommitSHA("xyz123f"))              // not hex
	assert.False(t, IsCommitSHA(strings.Repeat("a", 41))) // too long
	assert.False(t, IsCommitSHA(""))
}

func TestIsStateToken(t *testing.T) {
	assert.True(t, IsStateToken("qMneN3vcxBQ2TY0w5x8H0aGhK_1-Zz9PqrstUVWXyza"))
	assert.False(t, IsStateToken("short"))
	assert.False(t, IsStateToken("has spaces not allowed here"))
	assert.False(t, IsStateToken(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "fix bug", SanitizeString("fix bug\x00\x01", 50))
	assert.Equal(t, "abcde", SanitizeString("abcdefgh", 5))
	assert.Equal(t, "", SanitizeString("", 10))

	// Truncation never splits a multibyte rune.
	truncated := SanitizeString("fix bug ééé", 9) // é is 2 bytes
	assert.True(t, utf8.ValidString(truncated), "truncated string must stay valid UTF-8")
	assert.Equal(t, "fix bug ", truncated)
}
