// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// caller identity, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/foodgram-backend/docs" // swagger spec registration
	"github.com/tbourn/foodgram-backend/internal/config"
	"github.com/tbourn/foodgram-backend/internal/http/handlers"
	"github.com/tbourn/foodgram-backend/internal/http/middleware"
	"github.com/tbourn/foodgram-backend/internal/repo"
	"github.com/tbourn/foodgram-backend/internal/services"
)

var corsHeaders = []string{
	"Origin", "Content-Type", "Accept", "Authorization",
	middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match",
}

const readyTimeout = 2 * time.Second

// exposedHeaders are readable by browser clients besides X-Request-ID.
var exposedHeaders = []string{"Content-Length", "ETag", "Idempotency-Replayed", "Content-Disposition"}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), caller identity,
// idempotency and rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger (debug) or RedactingLogger: structured logs, PII scrubbed in release
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip
//  6. Metrics
//  7. Identity: resolve X-User-ID against the user store
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	handlers.RegisterValidators()

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging: full detail in debug mode, redacted otherwise
	if cfg.GinMode == gin.DebugMode {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderUserID},
		}))
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB; recipe images travel inline as base64)
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Services ← db/config
	users := &services.UserService{DB: db, BcryptCost: cfg.BcryptCost}
	recipes := services.NewRecipeService(db, services.Limits{
		CookingTimeMin: cfg.Recipes.CookingTimeMin,
		CookingTimeMax: cfg.Recipes.CookingTimeMax,
		AmountMin:      cfg.Recipes.AmountMin,
		AmountMax:      cfg.Recipes.AmountMax,
	})

	// 7) Caller identity (anonymous when the header is absent)
	r.Use(middleware.Identity(users.Exists))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return "", false, nil
				}
				return "", false, err
			}
			return rec.ResourceID, true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP, split into read and write budgets
	rl := middleware.NewRateLimiter(
		middleware.Budget{RPS: cfg.RateRPS, Burst: cfg.RateBurst},
		middleware.Budget{RPS: cfg.RateWriteRPS, Burst: cfg.RateWriteBurst},
		middleware.KeyByUserOrIP(),
	)
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    append([]string{"X-Request-ID"}, exposedHeaders...),
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    append([]string{"X-Request-ID"}, exposedHeaders...),
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security and cache headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		Expose:     exposedHeaders,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness and readiness (store reachable)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := repo.Ping(ctx, db); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("store not ready")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Deps{
		Recipes:       recipes,
		Favorites:     services.NewFavoriteToggle(db),
		Cart:          services.NewCartToggle(db),
		Subscriptions: services.NewSubscriptionToggle(db),
		Shopping:      &services.ShoppingService{DB: db},
		Users:         users,
		Catalog:       services.NewCatalogService(db),
		SaveIdempotency: func(ctx context.Context, userID, scope, key, resourceID string, status int) error {
			_, err := repo.CreateIdempotency(ctx, db, userID, scope, key, resourceID, status, cfg.IdempotencyTTL)
			return err
		},
		PageSize:    cfg.Recipes.PageSize,
		MaxPageSize: cfg.Recipes.MaxPageSize,
	})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	auth := middleware.RequireUser()
	admin := middleware.RequireAdmin(cfg.AdminUserIDs)
	{
		// Recipes
		api.GET("/recipes", h.ListRecipes)
		api.POST("/recipes", auth, h.CreateRecipe)
		api.GET("/recipes/download_shopping_cart", auth, h.DownloadShoppingCart)
		api.GET("/recipes/:id", h.GetRecipe)
		api.PUT("/recipes/:id", auth, h.UpdateRecipe)
		api.PATCH("/recipes/:id", auth, h.PatchRecipe)
		api.DELETE("/recipes/:id", auth, h.DeleteRecipe)

		// Favorites and shopping cart
		api.POST("/recipes/:id/favorite", auth, h.AddFavorite)
		api.DELETE("/recipes/:id/favorite", auth, h.RemoveFavorite)
		api.POST("/recipes/:id/shopping_cart", auth, h.AddToCart)
		api.DELETE("/recipes/:id/shopping_cart", auth, h.RemoveFromCart)

		// Users and subscriptions
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.RegisterUser)
		api.GET("/users/me", auth, h.Me)
		api.POST("/users/set_password", auth, h.SetPassword)
		api.GET("/users/subscriptions", auth, h.ListSubscriptions)
		api.GET("/users/:id", h.GetUser)
		api.POST("/users/:id/subscribe", auth, h.Subscribe)
		api.DELETE("/users/:id/subscribe", auth, h.Unsubscribe)

		// Catalog
		api.GET("/tags", h.ListTags)
		api.POST("/tags", admin, h.CreateTag)
		api.GET("/tags/:id", h.GetTag)
		api.GET("/ingredients", h.ListIngredients)
		api.GET("/ingredients/:id", h.GetIngredient)
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

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
