package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/handler"
	"github.com/leoprim/ebutikpartner-sub001/internal/llm"
)

type mockGenerator struct {
	generateFn func(ctx context.Context, req llm.GenerateRequest) (string, error)
	calls      int
}

func (m *mockGenerator) GenerateBlogPost(ctx context.Context, req llm.GenerateRequest) (string, error) {
	m.calls++
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return "generated content", nil
}

func postBlog(t *testing.T, h *handler.BlogHandler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)
	return w
}

func TestBlogGenerate_Success(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{
		generateFn: func(_ context.Context, req llm.GenerateRequest) (string, error) {
			assert.Equal(t, "winter boots", req.Topic)
			assert.Equal(t, "boots, waterproof", req.Keywords)
			assert.Equal(t, "keep it short", req.AdditionalInstructions)
			return "# Winter Boots\n\nStay dry.", nil
		},
	}

	h := handler.NewBlogHandler(gen, true)
	w := postBlog(t, h, map[string]string{
		"topic":                  "winter boots",
		"keywords":               "boots, waterproof",
		"additionalInstructions": "keep it short",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "# Winter Boots\n\nStay dry.", resp["content"])
}

func TestBlogGenerate_MissingTopic(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	h := handler.NewBlogHandler(gen, true)
	w := postBlog(t, h, map[string]string{"keywords": "boots"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.calls, "invalid input must not reach the provider")
}

func TestBlogGenerate_MissingKeywords(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	h := handler.NewBlogHandler(gen, true)
	w := postBlog(t, h, map[string]string{"topic": "winter boots"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.calls)
}

func TestBlogGenerate_InvalidJSON(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	h := handler.NewBlogHandler(gen, true)

	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.calls)
}

func TestBlogGenerate_NoAPIKey(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	h := handler.NewBlogHandler(gen, false)
	w := postBlog(t, h, map[string]string{"topic": "winter boots", "keywords": "boots"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LLM API key is not configured", resp["error"])
	assert.Zero(t, gen.calls)
}

func TestBlogGenerate_UpstreamFailure(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{
		generateFn: func(_ context.Context, _ llm.GenerateRequest) (string, error) {
			return "", errors.New("provider overloaded")
		},
	}

	h := handler.NewBlogHandler(gen, true)
	w := postBlog(t, h, map[string]string{"topic": "winter boots", "keywords": "boots"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, gen.calls, "a failed call is not retried")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed to generate blog post", resp["error"])
}
