package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testRequest(kind string) models.GenerationRequest {
	return models.GenerationRequest{
		NodeID:      "generate_" + kind,
		Kind:        kind,
		System:      "system prompt",
		Prompt:      "prompt",
		Temperature: 0.2,
		MaxTokens:   2000,
		Params:      map[string]any{"product_name": "GlowBoost"},
	}
}

func TestStaticBackend_AllKinds(t *testing.T) {
	backend := NewStaticBackend()

	for _, kind := range []string{KindQuestions, KindFictionalProduct, KindProductPage, KindFAQ, KindComparison} {
		content, err := backend.Generate(context.Background(), testRequest(kind))

		require.NoError(t, err, kind)
		assert.Equal(t, kind, content.Kind)
		assert.NotEmpty(t, content.Data)
		assert.Contains(t, content.Text, "GlowBoost")
	}
}

func TestStaticBackend_UnknownKind(t *testing.T) {
	backend := NewStaticBackend()

	_, err := backend.Generate(context.Background(), testRequest("poetry"))

	require.Error(t, err)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}

func TestHTTPBackend_Success(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": "generated text",
			"data": map[string]any{"title": "GlowBoost Overview"},
		})
	}))
	defer server.Close()

	backend := NewHTTPBackend(testLogger(), server.URL, "secret", "writer-v2")

	content, err := backend.Generate(context.Background(), testRequest(KindProductPage))

	require.NoError(t, err)
	assert.Equal(t, KindProductPage, content.Kind)
	assert.Equal(t, "generated text", content.Text)
	assert.Equal(t, "GlowBoost Overview", content.Data["title"])

	assert.Equal(t, "writer-v2", gotBody["model"])
	assert.Equal(t, KindProductPage, gotBody["kind"])
	assert.EqualValues(t, 2000, gotBody["max_tokens"])
}

func TestHTTPBackend_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   models.ErrorKind
	}{
		{http.StatusTooManyRequests, models.KindRateLimited},
		{http.StatusNotFound, models.KindNotFound},
		{http.StatusBadRequest, models.KindInvalid},
		{http.StatusUnauthorized, models.KindInvalid},
		{http.StatusInternalServerError, models.KindUnavailable},
		{http.StatusBadGateway, models.KindUnavailable},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		backend := NewHTTPBackend(testLogger(), server.URL, "", "")

		_, err := backend.Generate(context.Background(), testRequest(KindQuestions))

		require.Error(t, err, tc.status)
		assert.Equal(t, tc.kind, models.KindOf(err), "status %d", tc.status)

		server.Close()
	}
}

func TestHTTPBackend_Unreachable(t *testing.T) {
	backend := NewHTTPBackend(testLogger(), "http://127.0.0.1:1", "", "")

	_, err := backend.Generate(context.Background(), testRequest(KindQuestions))

	require.Error(t, err)
	assert.Equal(t, models.KindUnavailable, models.KindOf(err))
}

func TestHTTPBackend_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	backend := NewHTTPBackend(testLogger(), server.URL, "", "")

	_, err := backend.Generate(context.Background(), testRequest(KindQuestions))

	require.Error(t, err)
	assert.Equal(t, models.KindInvalid, models.KindOf(err))
}
