package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/tutorhub-backend/errors"
	"github.com/tutorhub/tutorhub-backend/logger"
	"github.com/tutorhub/tutorhub-backend/types"
)

// ErrorHandler turns the last error attached to the gin context into the
// {success:false, message, type, details?} envelope. Internal details are
// logged and never returned for server-side failures.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ginErr := c.Errors.Last()
		err := ginErr.Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			response := types.ErrorResponse{
				Success: false,
				Type:    string(appError.Type),
				Message: appError.Message,
			}
			// Only include details for client errors or in debug mode
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.NotFoundError ||
				appError.Type == errors.RateLimitError) {
				response.Details = appError.Detail
			}
			c.JSON(statusCode, response)
			return
		}

		if ginErr.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			response := types.ErrorResponse{
				Success: false,
				Type:    string(errors.ValidationError),
				Message: "Failed to bind request",
			}
			if gin.IsDebugging() {
				response.Details = err.Error()
			}
			c.JSON(http.StatusBadRequest, response)
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		response := types.ErrorResponse{
			Success: false,
			Type:    string(errors.ServerError),
			Message: "Internal Server Error",
		}
		if gin.IsDebugging() {
			response.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, response)
	}
}

// Recovery converts panics into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.GetLogger().Errorw("Recovered from panic",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"method", c.Request.Method)
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
			Success: false,
			Type:    string(errors.ServerError),
			Message: "Internal Server Error",
		})
	})
}
