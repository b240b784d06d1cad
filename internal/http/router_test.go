package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/foodgram-backend/internal/config"
	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/http/middleware"
	"github.com/tbourn/foodgram-backend/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig(base string) config.Config {
	return config.Config{
		APIBasePath:    base,
		RateRPS:        100,
		RateBurst:      50,
		RateWriteRPS:   100,
		RateWriteBurst: 50,
		BcryptCost:     4,
		Recipes: config.RecipeConfig{
			CookingTimeMin: 1, CookingTimeMax: 1440,
			AmountMin: 1, AmountMax: 5000,
			PageSize: 6, MaxPageSize: 100,
		},
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func serve(r *gin.Engine, method, path, user string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig("/api/v1"))

	// /health works
	w := serve(r, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired and never gzipped
	w = serve(r, http.MethodGet, "/metrics", "", nil, map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}
	if enc := w.Header().Get("Content-Encoding"); enc == "gzip" {
		t.Fatalf("/metrics must not be gzipped")
	}

	// NoRoute → 404
	if w = serve(r, http.MethodGet, "/nope", "", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = serve(r, http.MethodPost, "/health", "", nil, nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger is off unless enabled
	if w = serve(r, http.MethodGet, "/swagger/index.html", "", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig("/api/v2")
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	RegisterRoutes(r, newTestDB(t), cfg)

	w := serve(r, http.MethodGet, "/health", "", nil, map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig("/api/v1")
	cfg.SwaggerEnabled = true
	RegisterRoutes(r, newTestDB(t), cfg)

	w := serve(r, http.MethodGet, "/swagger/doc.json", "", nil, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("/recipes")) {
		t.Fatalf("swagger doc = %d", w.Code)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

// Smoke test that a request traverses the whole pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig("/api/v1")
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	RegisterRoutes(r, newTestDB(t), cfg)

	w := serve(r, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers")
	}
	if cc := serve(r, http.MethodGet, "/api/v1/recipes", "", nil, nil).Header().Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("anonymous recipe list Cache-Control = %q", cc)
	}
}

func TestRegisterRoutes_AccessLogByMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	author := uuid.NewString()

	for _, tc := range []struct {
		mode     string
		contains string
		absent   string
	}{
		{gin.DebugMode, "author=" + author, "REDACTED"},
		{gin.ReleaseMode, "[REDACTED:id]", author},
	} {
		t.Run(tc.mode, func(t *testing.T) {
			var buf bytes.Buffer
			prev := log.Logger
			t.Cleanup(func() { log.Logger = prev })
			log.Logger = zerolog.New(&buf)

			cfg := testConfig("/api/v1")
			cfg.GinMode = tc.mode
			r := gin.New()
			RegisterRoutes(r, newTestDB(t), cfg)

			if w := serve(r, http.MethodGet, "/api/v1/recipes?author="+author, "", nil, nil); w.Code != http.StatusOK {
				t.Fatalf("list = %d", w.Code)
			}
			out := buf.String()
			if !strings.Contains(out, tc.contains) || strings.Contains(out, tc.absent) {
				t.Fatalf("%s access log:\n%s", tc.mode, out)
			}
		})
	}
}

func TestRegisterRoutes_IdentityAndAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig("/api/v1"))

	// anonymous reads are fine
	if w := serve(r, http.MethodGet, "/api/v1/recipes", "", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("anonymous list = %d", w.Code)
	}
	// writes need a caller
	if w := serve(r, http.MethodPost, "/api/v1/recipes", "", map[string]any{}, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create = %d", w.Code)
	}
	// unknown callers are rejected up front
	if w := serve(r, http.MethodGet, "/api/v1/recipes", "ghost", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user = %d", w.Code)
	}
}

func TestRegisterRoutes_TagCreationRequiresAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	ctx := context.Background()
	for _, u := range []domain.User{
		{ID: "u-admin", Email: "admin@example.com", Username: "admin", FirstName: "A", LastName: "D", PasswordHash: "x"},
		{ID: "u-cook", Email: "cook@example.com", Username: "cook", FirstName: "C", LastName: "K", PasswordHash: "x"},
	} {
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			t.Fatalf("seed %s: %v", u.Username, err)
		}
	}
	cfg := testConfig("/api/v1")
	cfg.AdminUserIDs = []string{"u-admin"}
	RegisterRoutes(r, db, cfg)

	body := map[string]string{"name": "Dinner", "color": "#12AB34"}
	if w := serve(r, http.MethodPost, "/api/v1/tags", "", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/v1/tags", "u-cook", body, nil); w.Code != http.StatusForbidden {
		t.Fatalf("regular user = %d %s", w.Code, w.Body.String())
	}
	var n int64
	db.Model(&domain.Tag{}).Count(&n)
	if n != 0 {
		t.Fatalf("forbidden request stored %d tags", n)
	}
	w := serve(r, http.MethodPost, "/api/v1/tags", "u-admin", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin = %d %s", w.Code, w.Body.String())
	}
	var tag domain.Tag
	_ = json.Unmarshal(w.Body.Bytes(), &tag)
	if tag.Slug != "dinner" || tag.Color != "#12AB34" {
		t.Fatalf("created tag = %+v", tag)
	}
}

// End-to-end: register, seed catalog, compose, cart, download,
// and an idempotent replay, all through the real middleware stack.
func TestRegisterRoutes_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig("/api/v1"))
	ctx := context.Background()

	w := serve(r, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email": "cook@example.com", "username": "cook", "first_name": "C", "last_name": "K", "password": "Secret123",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	var user struct{ ID string }
	_ = json.Unmarshal(w.Body.Bytes(), &user)

	// Tags are admin-managed; a regular user cannot add one.
	w = serve(r, http.MethodPost, "/api/v1/tags", user.ID, map[string]string{"name": "Breakfast", "color": "#E26C2D"}, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("tag by regular user = %d %s", w.Code, w.Body.String())
	}
	tag := domain.Tag{ID: "t-breakfast", Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	if err := repo.CreateTag(ctx, db, &tag); err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	if _, err := repo.CreateIngredients(ctx, db, []domain.Ingredient{{ID: "i-egg", Name: "egg", MeasurementUnit: "pcs"}}); err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}

	recipe := map[string]any{
		"name": "Omelette", "text": "Whisk and fry", "cooking_time": 5,
		"tags":        []string{tag.ID},
		"ingredients": []map[string]any{{"id": "i-egg", "amount": 3}},
	}
	hdr := map[string]string{middleware.HeaderIdempotencyKey: "omelette-1"}
	w = serve(r, http.MethodPost, "/api/v1/recipes", user.ID, recipe, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var created struct{ ID string }
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = serve(r, http.MethodPost, "/api/v1/recipes", user.ID, recipe, hdr)
	if w.Code != http.StatusCreated || w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay = %d replayed=%q", w.Code, w.Header().Get("Idempotency-Replayed"))
	}

	if w = serve(r, http.MethodPost, "/api/v1/recipes/"+created.ID+"/shopping_cart", user.ID, nil, nil); w.Code != http.StatusCreated {
		t.Fatalf("cart = %d", w.Code)
	}
	w = serve(r, http.MethodGet, "/api/v1/recipes/download_shopping_cart", user.ID, nil, nil)
	if w.Code != http.StatusOK || w.Body.String() != "egg - 3 pcs" {
		t.Fatalf("download = %d %q", w.Code, w.Body.String())
	}

	// bad idempotency keys are rejected before the handler
	w = serve(r, http.MethodPost, "/api/v1/recipes", user.ID, recipe, map[string]string{middleware.HeaderIdempotencyKey: "has space"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad key = %d", w.Code)
	}
}

func TestRegisterRoutes_StoreDownFailsClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig("/api/v1"))

	// Closing the pool makes every lookup fail; identity runs first and
	// must answer 500 instead of letting the request through.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	w := serve(r, http.MethodPost, "/health", "u1", nil, map[string]string{middleware.HeaderIdempotencyKey: "force-error"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRegisterRoutes_Readiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, testConfig("/api/v1"))

	if w := serve(r, http.MethodGet, "/ready", "", nil, nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ready"`) {
		t.Fatalf("ready = %d %s", w.Code, w.Body.String())
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()
	if w := serve(r, http.MethodGet, "/ready", "", nil, nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with closed store = %d", w.Code)
	}
	// Liveness does not depend on the store.
	if w := serve(r, http.MethodGet, "/health", "", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("health with closed store = %d", w.Code)
	}
}
