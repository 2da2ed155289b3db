package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tutorhub/tutorhub-backend/errors"
	"github.com/tutorhub/tutorhub-backend/logger"
)

func init() {
	logger.IsTest = true
}

func TestErrorHandler(t *testing.T) {
	testCases := []struct {
		name               string
		err                error
		ginErrorType       gin.ErrorType
		debugMode          bool
		expectedStatusCode int
		expectedBody       map[string]any
	}{
		{
			name:               "Standard Go Error - Release Mode",
			err:                errors.New("internal processing error"),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"success": false,
				"type":    "SERVER_ERROR",
				"message": "Internal Server Error",
			},
		},
		{
			name:               "Standard Go Error - Debug Mode",
			err:                errors.New("internal processing error"),
			ginErrorType:       gin.ErrorTypePrivate,
			debugMode:          true,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"success": false,
				"type":    "SERVER_ERROR",
				"message": "Internal Server Error",
				"details": "internal processing error",
			},
		},
		{
			name:               "Validation AppError shows details",
			err:                apperrors.ValidationFailed("Invalid testimonial", "name is required"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"success": false,
				"type":    "VALIDATION_ERROR",
				"message": "Invalid testimonial",
				"details": "name is required",
			},
		},
		{
			name:               "Not found AppError",
			err:                apperrors.NotFound("Testimonial", "abc"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusNotFound,
			expectedBody: map[string]any{
				"success": false,
				"type":    "NOT_FOUND",
				"message": "Testimonial not found",
				"details": "ID: abc",
			},
		},
		{
			name:               "Persistence AppError hides details",
			err:                apperrors.NewDatabaseError(errors.New("connection refused")),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"success": false,
				"type":    "PERSISTENCE_ERROR",
				"message": "Database operation failed",
			},
		},
		{
			name:               "Upload AppError hides details",
			err:                apperrors.UploadFailed(errors.New("s3 denied")),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"success": false,
				"type":    "UPLOAD_ERROR",
				"message": "Image upload failed",
			},
		},
		{
			name:               "Bind error",
			err:                errors.New("invalid character"),
			ginErrorType:       gin.ErrorTypeBind,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"success": false,
				"type":    "VALIDATION_ERROR",
				"message": "Failed to bind request",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.debugMode {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			defer gin.SetMode(gin.TestMode)

			router := gin.New()
			router.Use(ErrorHandler())
			router.GET("/test", func(c *gin.Context) {
				_ = c.Error(tc.err).SetType(tc.ginErrorType)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestErrorHandler_NoErrorsPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"type":"SERVER_ERROR","message":"Internal Server Error"}`, w.Body.String())
}
