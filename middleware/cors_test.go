package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tutorhub/tutorhub-backend/config"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockConfig := &config.ServerConfig{
		AllowedOrigins: []string{"http://localhost:3000", "https://tutorhub.example", "https://*.tutorhub.example"},
	}

	testCases := []struct {
		name           string
		requestOrigin  string
		expectedOrigin string
		isOptions      bool
	}{
		{
			name:           "Allowed Origin - Simple Request",
			requestOrigin:  "http://localhost:3000",
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:           "Wildcard Subdomain - Simple Request",
			requestOrigin:  "https://admin.tutorhub.example",
			expectedOrigin: "https://admin.tutorhub.example",
		},
		{
			name:           "Disallowed Origin - Simple Request",
			requestOrigin:  "http://malicious.com",
			expectedOrigin: "",
		},
		{
			name:           "Allowed Origin - Preflight Request",
			requestOrigin:  "https://tutorhub.example",
			expectedOrigin: "https://tutorhub.example",
			isOptions:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(mockConfig))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			method := http.MethodGet
			if tc.isOptions {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/test", nil)
			req.Header.Set("Origin", tc.requestOrigin)
			if tc.isOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.isOptions {
				assert.Equal(t, http.StatusNoContent, w.Code)
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
			}
		})
	}
}

func TestCORSMiddleware_AllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware(&config.ServerConfig{AllowedOrigins: []string{"*"}}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
