package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/handlers"
	"github.com/tutorhub/tutorhub-backend/middleware"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config             *config.Config
	TestimonialHandler *handlers.TestimonialHandler
	HealthHandler      *handlers.HealthHandler
	// RedisClient backs the mutation rate limiter. Nil disables limiting.
	RedisClient redis.UniversalClient
	Logger      *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		deps.Logger.Warnw("Invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.ReadinessCheck)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Images written by the local blob provider are served by the API itself.
	if deps.Config.Storage.Provider == config.ProviderLocal {
		r.Static(config.LocalUploadsRoute, deps.Config.Storage.LocalBasePath)
	}

	window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
	api := r.Group("/api")
	testimonials := api.Group("/testimonials")
	testimonials.Use(middleware.MutationRateLimiter(deps.RedisClient, deps.Config.RateLimit.MutationsPerWindow, window))
	{
		testimonials.GET("", deps.TestimonialHandler.ListTestimonials)
		testimonials.POST("", deps.TestimonialHandler.CreateTestimonial)
		testimonials.DELETE("/:id", deps.TestimonialHandler.DeleteTestimonial)
	}

	return r
}
