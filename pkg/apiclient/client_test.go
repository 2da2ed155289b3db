package apiclient_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/handlers"
	"github.com/tutorhub/tutorhub-backend/internal/blob"
	"github.com/tutorhub/tutorhub-backend/internal/store/sqlitestore"
	"github.com/tutorhub/tutorhub-backend/logger"
	testimonialSvc "github.com/tutorhub/tutorhub-backend/models/testimonial/service"
	"github.com/tutorhub/tutorhub-backend/pkg/apiclient"
	"github.com/tutorhub/tutorhub-backend/router"
	"github.com/tutorhub/tutorhub-backend/services"
	"github.com/tutorhub/tutorhub-backend/types"
)

func init() {
	logger.IsTest = true
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: config.EnvDevelopment, AllowedOrigins: []string{"*"}},
		Storage: config.StorageConfig{
			Provider:         config.ProviderLocal,
			PublicBaseURL:    "http://localhost:8080/uploads",
			CollectionFolder: config.TestimonialsFolder,
			LocalBasePath:    t.TempDir(),
		},
		Upload:    config.UploadConfig{MaxImageBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{MutationsPerWindow: 100, WindowSeconds: 60},
	}

	s, err := sqlitestore.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	gateway, _, err := blob.NewGatewayFromConfig(ctx, cfg.Storage)
	require.NoError(t, err)

	svc := testimonialSvc.NewTestimonialService(s, gateway, blob.NewKeyGenerator(cfg.Storage.CollectionFolder), config.PlaceholderImagePath)
	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		TestimonialHandler: handlers.NewTestimonialHandler(svc, cfg.Upload.MaxImageBytes),
		HealthHandler:      handlers.NewHealthHandler(services.NewHealthService(s, nil, "test")),
		Logger:             logger.GetLogger(),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := apiclient.NewClient(srv.URL + "/")
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	withImage, err := client.Create(ctx, apiclient.CreateRequest{
		Name:        "Sara",
		Quote:       "My grades went up.",
		Designation: types.DesignationStudent,
		Image:       &apiclient.ImageFile{Filename: "sara.png", Content: bytes.NewReader(pngBytes)},
	})
	require.NoError(t, err)
	assert.Contains(t, withImage.ImageURL, "http://localhost:8080/uploads/testimonials/")

	plain, err := client.Create(ctx, apiclient.CreateRequest{
		Name:        "Omar",
		Quote:       "Great tutors.",
		Designation: types.DesignationParent,
	})
	require.NoError(t, err)
	assert.Equal(t, config.PlaceholderImagePath, plain.ImageURL)

	list, err = client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	msg, err := client.Delete(ctx, withImage.ID)
	require.NoError(t, err)
	assert.Equal(t, "Testimonial deleted successfully", msg)

	list, err = client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, plain.ID, list[0].ID)
}

func TestClient_ServerMessagesSurfaceVerbatim(t *testing.T) {
	srv := newTestServer(t)
	client := apiclient.NewClient(srv.URL, apiclient.WithLocale(apiclient.Arabic))
	ctx := context.Background()

	_, err := client.Create(ctx, apiclient.CreateRequest{Name: "Sara", Quote: "Hi", Designation: "teacher"})
	require.Error(t, err)
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Type)
	assert.False(t, apiErr.Transport)
	assert.NotEmpty(t, apiErr.Message)

	_, err = client.Delete(ctx, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Equal(t, "Testimonial not found", apiclient.UserMessage(err))
}

func TestClient_TransportFailureIsLocalized(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := apiclient.NewClient(url).List(context.Background())
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Transport)
	assert.Equal(t, "Could not reach the server. Please check your connection and try again.", apiErr.Message)

	_, err = apiclient.NewClient(url, apiclient.WithLocale(apiclient.Arabic)).List(context.Background())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "تعذر الوصول إلى الخادم. يرجى التحقق من اتصالك والمحاولة مرة أخرى.", apiErr.Message)
}

func TestClient_NonJSONErrorUsesGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := apiclient.NewClient(srv.URL).List(context.Background())
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Something went wrong. Please try again later.", apiErr.Message)
}
