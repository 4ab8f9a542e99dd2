package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/volunteer-tracker/internal/config"
	"github.com/ericfisherdev/volunteer-tracker/internal/container"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("RateLimitedOAuthStart", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("REDIS_ADDR", "")
		cfg := config.NewConfig()
		c := container.NewMemoryContainer(cfg)

		router, err := setupRouter(context.Background(), cfg, c)
		require.NoError(t, err)

		// The per-user OAuth budget is 5 per window; the sixth start is refused.
		var last int
		for i := 0; i < 6; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/oauth/start?chat_user_id=123456789012345678", nil)
			req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i+1)
			router.ServeHTTP(w, req)
			last = w.Code
		}
		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("RateLimitDisabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		cfg := config.NewConfig()
		c := container.NewMemoryContainer(cfg)

		router, err := setupRouter(context.Background(), cfg, c)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UnreachableRedisFailsFast", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("REDIS_ADDR", "127.0.0.1:1")
		cfg := config.NewConfig()
		c := container.NewMemoryContainer(cfg)

		_, err := setupRouter(context.Background(), cfg, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter")
	})
}
