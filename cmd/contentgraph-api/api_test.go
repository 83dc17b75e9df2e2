package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukex/contentgraph/pkg/cmd"
	"github.com/dukex/contentgraph/pkg/config"
	"github.com/dukex/contentgraph/pkg/generation"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.LoadOrDefault("")

	eventBus := cmd.NewEventBus("gochannel", slog.Default())
	t.Cleanup(func() {
		_ = eventBus.Close()
	})

	api := NewAPI(
		slog.Default(),
		cfg,
		generation.NewStaticBackend(),
		eventBus,
	)

	return api.App()
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Contentgraph API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CreateRun(t *testing.T) {
	app := setupTestApp(t)

	record := `{
		"name": "GlowBoost Vitamin C Serum",
		"concentration": "15%",
		"skin_types": ["oily"],
		"key_ingredients": ["Vitamin C"],
		"benefits": ["brightening"],
		"how_to_use": "Apply daily",
		"price": "$45"
	}`

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(record))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
