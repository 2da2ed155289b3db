package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/tutorhub-backend/services"
	"github.com/tutorhub/tutorhub-backend/types"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedHealth types.HealthStatus
	}{
		{name: "store up", expectedStatus: http.StatusOK, expectedHealth: types.HealthStatusUp},
		{name: "store down", pingErr: errors.New("down"), expectedStatus: http.StatusServiceUnavailable, expectedHealth: types.HealthStatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService(stubPinger{err: tt.pingErr}, nil, "test"))
			router := gin.New()
			router.GET("/health", h.ReadinessCheck)
			router.GET("/health/liveness", h.LivenessCheck)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.expectedStatus, w.Code)

			var health types.HealthCheck
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
			assert.Equal(t, tt.expectedHealth, health.Status)
			assert.Equal(t, "test", health.Version)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
