package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func durationSampleCount(t *testing.T, method, route string) uint64 {
	t.Helper()
	obs, err := httpRequestDuration.GetMetricWithLabelValues(method, route)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, obs.(prometheus.Metric).Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.DELETE("/api/testimonials/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodDelete, "/api/testimonials/:id", "200")
	before := testutil.ToFloat64(counter)
	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	beforeUnmatched := testutil.ToFloat64(unmatched)
	beforeSamples := durationSampleCount(t, http.MethodDelete, "/api/testimonials/:id")

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/testimonials/one", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/testimonials/two", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, beforeSamples+2, durationSampleCount(t, http.MethodDelete, "/api/testimonials/:id"))
}
