// Package httpapi wires the HTTP transport (Gin) to the wish service,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, compression, and idempotent create.
//
// Design goals:
//   - Safe-by-default middleware ordering (CorrelationID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Uniform error envelopes for unroutable paths and wrong methods
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-wishlist-backend/internal/config"
	"github.com/tbourn/go-wishlist-backend/internal/http/handlers"
	"github.com/tbourn/go-wishlist-backend/internal/http/middleware"
	"github.com/tbourn/go-wishlist-backend/internal/repo"
	"github.com/tbourn/go-wishlist-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. CorrelationID: generate/propagate the correlation id
//  3. Logger: structured access logs (no bodies, ever)
//  4. Recovery: capture panics after the logger
//  5. Body size limiter
//  6. Metrics and /metrics endpoint
//  7. Idempotency validator for POST /wishes
//  8. CORS, gzip, and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests, logs, audit events, and error envelopes
	r.Use(middleware.CorrelationID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to a JSON 500 envelope (with correlation id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation for create requests
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, key, now)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return rec != nil, nil
		},
	))

	// 8) CORS posture (allow all when no origins configured), response
	// compression, and the fixed security header set
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Correlation-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Correlation-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks render the same envelope as every other failure
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeHTTP, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeHTTP, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: handlers ← service ← store
	svc := services.NewWishService(db)
	h := handlers.New(svc)
	h.DB = db
	h.IdempotencyTTL = cfg.IdempotencyTTL

	wishes := r.Group("/wishes")
	{
		wishes.POST("", h.CreateWish)
		wishes.GET("", h.FilterWishes)
		wishes.GET("/search", h.SearchWishes)
		wishes.GET("/:id", h.GetWish)
		wishes.PATCH("/:id", h.UpdateWish)
		wishes.DELETE("/:id", h.DeleteWish)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
