package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"parts-checkout/internal/core/config"
	"parts-checkout/internal/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{ServerPort: 8080}

	require.NoError(t, logger.Init("development", "debug", ""))
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
}

func TestServer_UnknownRouteUsesErrorBody(t *testing.T) {
	srv := New(&config.AppConfig{})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RayIDHeader))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, resp.Header.Get(RayIDHeader), body["ray_id"])
}

func TestServer_Health(t *testing.T) {
	t.Run("AllHealthy", func(t *testing.T) {
		srv := New(&config.AppConfig{})
		srv.RegisterHealth(map[string]HealthCheck{
			"redis": func(context.Context) error { return nil },
		})

		resp, err := srv.App.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("FailingCheck", func(t *testing.T) {
		srv := New(&config.AppConfig{})
		srv.RegisterHealth(map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})

		resp, err := srv.App.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "connection refused", body["redis"])
	})
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	require.NoError(t, logger.Init("development", "error", ""))
	srv := New(&config.AppConfig{ServerPort: 1})

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		_ = srv.App.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}
