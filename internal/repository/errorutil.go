// Package repository provides data access interfaces and implementations.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is a sentinel error for not found conditions
var ErrNotFound = errors.New("not found")

// IsNotFound checks if an error represents a "not found" condition.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, sql.ErrNoRows) {
		return true
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	// Legacy string check fallback for compatibility
	return strings.Contains(err.Error(), "no rows in result set")
}

// IsUniqueViolation checks if an error represents a uniqueness constraint
// violation from the SQLite driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
