package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tutorhub/tutorhub-backend/config"
)

// SecurityHeadersMiddleware sets the response hardening headers, including on
// images served from the local uploads route.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// HSTS only in production so local http keeps working
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
