package api

import (
	"context"
	"net/http"
	"time"

	"github.com/community-records-api/internal/config"
	"github.com/community-records-api/internal/metrics"
	"github.com/community-records-api/internal/repository"
	"github.com/community-records-api/internal/service"
	"github.com/community-records-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// routerOptions holds the optional collaborators of the router
type routerOptions struct {
	platform *repository.Repositories
	limiter  RateCounter
	health   func(ctx context.Context) error
}

// Option configures NewRouter
type Option func(*routerOptions)

// WithPlatform mounts the record platform surface backed by repos
func WithPlatform(repos *repository.Repositories) Option {
	return func(o *routerOptions) { o.platform = repos }
}

// WithRateLimiter enables per-client rate limiting on /v1 and /platform
func WithRateLimiter(rdb RateCounter) Option {
	return func(o *routerOptions) { o.limiter = rdb }
}

// WithHealthCheck adds a dependency probe to /health
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(o *routerOptions) { o.health = check }
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, opts ...Option) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(metrics.Handler())

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	communityHandler := NewCommunityHandler(services, log)
	userHandler := NewUserHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(o.health))
	router.GET("/metrics", metrics.Exposer())

	var limited []gin.HandlerFunc
	if o.limiter != nil && cfg != nil && cfg.Redis.RateLimit > 0 {
		limited = append(limited, rateLimitMiddleware(o.limiter, cfg.Redis.RateLimit, cfg.Redis.Window, log))
	}

	// API v1
	v1 := router.Group("/v1", limited...)
	{
		v1.GET("/posts/:post_id/comments", commentHandler.ListByPost)

		comments := v1.Group("/comments")
		{
			comments.GET("", commentHandler.List)
			comments.POST("", commentHandler.Create)
			comments.GET("/:id", commentHandler.Get)
			comments.PATCH("/:id", commentHandler.Update)
			comments.DELETE("/:id", commentHandler.Delete)
			comments.POST("/:id/vote", commentHandler.Vote)
			comments.PUT("/:id/score", commentHandler.UpdateScore)
		}

		communities := v1.Group("/communities")
		{
			communities.GET("", communityHandler.List)
			communities.POST("", communityHandler.Create)
			communities.GET("/search", communityHandler.Search)
			communities.GET("/by-name/:name", communityHandler.GetByName)
			communities.GET("/:id", communityHandler.Get)
			communities.PATCH("/:id", communityHandler.Update)
			communities.DELETE("/:id", communityHandler.Delete)
		}

		users := v1.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.GET("/search", userHandler.Search)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	// Record platform surface
	if o.platform != nil {
		platformHandler := NewPlatformHandler(o.platform, log)
		tables := router.Group("/platform/v1/tables", limited...)
		{
			tables.GET("", platformHandler.ListTables)
			tables.POST("/:table/fetch", platformHandler.Fetch)
			tables.POST("/:table/records/:id", platformHandler.GetByID)
			tables.POST("/:table/create", platformHandler.Create)
			tables.POST("/:table/update", platformHandler.Update)
			tables.POST("/:table/delete", platformHandler.Delete)
		}
	}

	return router
}

// healthCheck returns the health status, probing check when given
func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		}
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				body["status"] = "unhealthy"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
