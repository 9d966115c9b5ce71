package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammaslab/workcard-api/internal/handler"
)

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, "", "")

	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/health", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var payload handler.HealthResponse
	decodeData(t, env, &payload)
	assert.Equal(t, "ok", payload.Status)
	assert.Equal(t, "WorkCard API", payload.Service)
	assert.Equal(t, "test", payload.Environment)
	assert.False(t, payload.Timestamp.IsZero())
}
