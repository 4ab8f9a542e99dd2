package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHours(t *testing.T) {
	t.Run("RejectsZero", func(t *testing.T) {
		assert.Error(t, ValidateHours(0))
	})

	t.Run("RejectsNegative", func(t *testing.T) {
		assert.Error(t, ValidateHours(-1.5))
	})

	t.Run("RejectsJustAboveMax", func(t *testing.T) {
		assert.Error(t, ValidateHours(24.0000001))
	})

	t.Run("AcceptsMax", func(t *testing.T) {
		assert.NoError(t, ValidateHours(24))
	})

	t.Run("AcceptsSmallFraction", func(t *testing.T) {
		assert.NoError(t, ValidateHours(0.1))
	})

	t.Run("ErrorIsValidationType", func(t *testing.T) {
		err := ValidateHours(0)
		require.Error(t, err)
		de, ok := err.(*DomainError)
		require.True(t, ok)
		assert.Equal(t, ValidationError, de.Type)
	})
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, HistoryLimitMin, ClampHistoryLimit(0))
	assert.Equal(t, HistoryLimitMin, ClampHistoryLimit(-5))
	assert.Equal(t, HistoryLimitMax, ClampHistoryLimit(1000))
	assert.Equal(t, 5, ClampHistoryLimit(5))
	assert.Equal(t, HistoryLimitMax, ClampHistoryLimit(HistoryLimitMax))
}

func TestHourLogValidate(t *testing.T) {
	log := &HourLog{
		ID:         "log-1",
		ChatUserID: "123456789012345678",
		CommitSHA:  "abc123f",
		Hours:      2.5,
	}
	require.NoError(t, log.Validate())

	log.CommitSHA = ""
	assert.Error(t, log.Validate())
}
