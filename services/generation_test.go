package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hanmeotapp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGenerationStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   models.FailureKind
	}{
		{http.StatusTooManyRequests, models.FailureTransient},
		{http.StatusServiceUnavailable, models.FailureTransient},
		{http.StatusBadRequest, models.FailurePermanent},
		{http.StatusUnauthorized, models.FailurePermanent},
		{http.StatusInternalServerError, models.FailurePermanent},
		{http.StatusBadGateway, models.FailurePermanent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, ClassifyGenerationStatus(tc.status), "status %d", tc.status)
	}
}

func testRequest() models.TryOnRequest {
	return models.TryOnRequest{
		UserImage: "data:image/png;base64,AAAA",
		OutfitItems: []models.GarmentDescriptor{
			{Category: "top", DisplayName: "Knit Sweater", SourceLabel: "Musinsa"},
		},
		Language: "ko",
	}
}

func TestGenerateTryOnPrefixesBareImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fitting/try-on", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"generated_image": "iVBORw0KGgo", "processing_time": 3.2}`))
	}))
	defer server.Close()

	service := NewGenerationService(server.URL)
	result, err := service.GenerateTryOn(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo", result.ImageURI)
	assert.Equal(t, 3.2, result.ProcessingTime)
}

func TestGenerateTryOnKeepsDataURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_image": "data:image/jpeg;base64,/9j/4AAQ", "processing_time": 1}`))
	}))
	defer server.Close()

	service := NewGenerationService(server.URL)
	result, err := service.GenerateTryOn(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4AAQ", result.ImageURI)
}

func TestStyleEditPostsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fitting/style-edit", r.URL.Path)
		var req models.StyleEditRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "make the jacket red", req.Command)
		w.Write([]byte(`{"generated_image": "iVBORw0KGgo", "processing_time": 2.0}`))
	}))
	defer server.Close()

	service := NewGenerationService(server.URL)
	result, err := service.StyleEdit(context.Background(), models.StyleEditRequest{
		UserImage: "data:image/png;base64,AAAA",
		Command:   "make the jacket red",
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo", result.ImageURI)
}

func TestGenerateTryOnRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	service := NewGenerationService(server.URL)
	_, err := service.GenerateTryOn(context.Background(), testRequest())
	require.Error(t, err)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, models.FailureTransient, serviceErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, serviceErr.StatusCode)
}

func TestGenerateTryOnMissingImageIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"processing_time": 2}`))
	}))
	defer server.Close()

	service := NewGenerationService(server.URL)
	_, err := service.GenerateTryOn(context.Background(), testRequest())
	require.Error(t, err)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, models.FailurePermanent, serviceErr.Kind)
}

func TestGenerateTryOnTimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	service := NewGenerationService(server.URL)
	service.HTTPClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := service.GenerateTryOn(context.Background(), testRequest())
	require.Error(t, err)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, models.FailureTransient, serviceErr.Kind)
}

func TestGenerateTryOnUnreachableIsPermanent(t *testing.T) {
	service := NewGenerationService("http://127.0.0.1:1")
	_, err := service.GenerateTryOn(context.Background(), testRequest())
	require.Error(t, err)

	var serviceErr *models.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, models.FailurePermanent, serviceErr.Kind)
}
