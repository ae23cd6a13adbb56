// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, compression, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/postboard/go-post-backend/internal/auth"
	"github.com/postboard/go-post-backend/internal/cache"
	"github.com/postboard/go-post-backend/internal/config"
	"github.com/postboard/go-post-backend/internal/domain"
	"github.com/postboard/go-post-backend/internal/http/handlers"
	"github.com/postboard/go-post-backend/internal/http/middleware"
	"github.com/postboard/go-post-backend/internal/repo"
	"github.com/postboard/go-post-backend/internal/services"
)

// maxBodyBytes is the transport-level request body cap. It sits above the
// service-level post size limit so the exact byte boundary is enforced by
// the orchestrator, not by the reader.
const maxBodyBytes = 2 << 20

// userRepoShim adapts the repository free functions to the
// services.UserRepo interface. This keeps services decoupled from the
// concrete repo package while reusing the existing functions.
type userRepoShim struct{}

func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, email, passwordHash)
}

func (userRepoShim) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

func (userRepoShim) DeleteUser(ctx context.Context, db *gorm.DB, userID string) error {
	return repo.DeleteUser(ctx, db, userID)
}

// postRepoShim adapts the repository free functions to services.PostRepo.
type postRepoShim struct{}

func (postRepoShim) CreatePost(ctx context.Context, db *gorm.DB, ownerID, text string) (*domain.Post, error) {
	return repo.CreatePost(ctx, db, ownerID, text)
}

func (postRepoShim) ListPostsByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Post, error) {
	return repo.ListPostsByOwner(ctx, db, ownerID)
}

func (postRepoShim) DeletePost(ctx context.Context, db *gorm.DB, postID, ownerID string) (bool, error) {
	return repo.DeletePost(ctx, db, postID, ownerID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Compression and body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, pc *cache.PostCache, tokens *auth.TokenService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Response compression and global body cap
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/cache/tokens
	accountSvc := &services.AccountService{
		DB:     db,
		Repo:   userRepoShim{},
		Tokens: tokens,
		Cache:  pc,
	}
	postSvc := &services.PostService{
		DB:           db,
		Repo:         postRepoShim{},
		Cache:        pc,
		MaxPostBytes: cfg.MaxPostBytes,
	}
	h := handlers.New(accountSvc, postSvc)

	// Public endpoints
	r.POST("/signup/", h.Signup)
	r.POST("/login/", h.Login)

	// Authenticated endpoints
	authed := r.Group("", middleware.BearerAuth(tokens))
	{
		authed.POST("/addpost/", h.AddPost)
		authed.GET("/getposts/", h.GetPosts)
		authed.DELETE("/deletepost/:id", h.DeletePost)
		authed.DELETE("/account/", h.DeleteAccount)
	}
}

// limitBody returns a Gin middleware that caps the request body size for
// all endpoints using http.MaxBytesReader. Requests exceeding the cap will
// cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
