package logger

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogHTTPError logs an error raised while serving c, tagged with the request id
// and the response status. Stack traces are only attached outside production.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	fields := httpErrorFields(c, err, statusCode)
	if os.Getenv("ENVIRONMENT") != "production" {
		fields = append(fields, zap.String("stack_trace", getStackTrace(3)))
	}
	GetLogger().Desugar().Error(message, fields...)
}

func httpErrorFields(c *gin.Context, err error, statusCode int) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", getErrorType(err)),
		zap.Int("status_code", statusCode),
	}
	if id := c.GetString("request_id"); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if c.Request != nil {
		fields = append(fields,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip_address", c.ClientIP()),
			zap.Any("headers", filterSensitiveHeaders(c.Request.Header)),
		)
	}
	return fields
}

// getErrorType returns the dynamic type name of err, e.g. "*errors.AppError".
func getErrorType(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T", err)
}

func getStackTrace(skip int) string {
	var pcs [32]uintptr
	frames := runtime.CallersFrames(pcs[:runtime.Callers(skip, pcs[:])])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			b.WriteString(frame.Function + "\n\t" + frame.File + ":" + strconv.Itoa(frame.Line) + "\n")
		}
		if !more {
			return b.String()
		}
	}
}

// filterSensitiveHeaders redacts credentials before headers reach the log.
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		switch {
		case lower == "authorization", lower == "cookie",
			strings.Contains(lower, "token"), strings.Contains(lower, "key"), strings.Contains(lower, "secret"):
			filtered[name] = "[REDACTED]"
		case len(values) > 0:
			filtered[name] = values[0]
		}
	}
	return filtered
}
