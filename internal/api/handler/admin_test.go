package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/handler"
	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

func TestAdmin_ListsBuilds(t *testing.T) {
	t.Parallel()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	builds := &mockBuildRepo{
		listFn: func(_ context.Context) ([]storebuild.Build, error) {
			return []storebuild.Build{
				{ID: uuid.New(), UserID: uuid.New(), StoreName: "Nordic Candles", Status: storebuild.StatusInProgress, Progress: 40},
				{ID: uuid.New(), UserID: uuid.New(), StoreName: "Vintage Vinyl", Status: storebuild.StatusCompleted, Progress: 100},
			}, nil
		},
	}

	h := handler.NewAdminHandler(builds, renderer)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nordic Candles")
	assert.Contains(t, w.Body.String(), "Vintage Vinyl")
}

func TestAdmin_EmptyList(t *testing.T) {
	t.Parallel()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	h := handler.NewAdminHandler(&mockBuildRepo{}, renderer)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No builds yet")
}

func TestAdmin_RepositoryError(t *testing.T) {
	t.Parallel()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	builds := &mockBuildRepo{
		listFn: func(_ context.Context) ([]storebuild.Build, error) {
			return nil, errors.New("database unreachable")
		},
	}

	h := handler.NewAdminHandler(builds, renderer)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
