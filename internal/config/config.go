// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database access, recipe validation bounds,
// rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/foodgram-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "foodgram-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1], applied to reads
	Environment string  // OTEL_DEPLOYMENT_ENVIRONMENT (e.g. "production")
}

// DBConfig selects and addresses the relational store.
type DBConfig struct {
	Driver string // DB_DRIVER: sqlite|postgres
	Path   string // DB_PATH: SQLite file path
	DSN    string // DB_DSN: Postgres connection string
}

// RecipeConfig bounds the numeric recipe fields and list page sizes.
type RecipeConfig struct {
	CookingTimeMin int // COOKING_TIME_MIN (minutes)
	CookingTimeMax int // COOKING_TIME_MAX (minutes)
	AmountMin      int // AMOUNT_MIN
	AmountMax      int // AMOUNT_MAX
	PageSize       int // RECIPES_PAGE_SIZE, default page size for recipe lists
	MaxPageSize    int // MAX_PAGE_SIZE, hard cap for any ?limit=
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DB         DBConfig
	Recipes    RecipeConfig
	BcryptCost int // BCRYPT_COST for password hashing
	// AdminUserIDs may create tags (ADMIN_USER_IDS, comma separated).
	AdminUserIDs []string

	// Rate limiting
	RateRPS        float64 // RATE_RPS, read tokens per second (>= 0)
	RateBurst      int     // RATE_BURST, read bucket size (>= 1)
	RateWriteRPS   float64 // RATE_WRITE_RPS, budget for POST/PUT/PATCH/DELETE
	RateWriteBurst int     // RATE_WRITE_BURST

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is replayed

	// Observability
	OTEL OTELConfig
}

// Load reads the environment, applies defaults and validates the result.
// Unparseable numbers, durations and flags fall back to their defaults.
func Load() (Config, error) {
	cfg := Config{
		DB:             loadDB(),
		Recipes:        loadRecipes(),
		BcryptCost:     getint("BCRYPT_COST", 10),
		AdminUserIDs:   splitCSV(getenv("ADMIN_USER_IDS", "")),
		CORS:           CORSConfig{AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", ""))},
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),
		OTEL:           loadOTEL(),
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
	}
	loadServer(&cfg)
	loadRates(&cfg)

	for _, c := range checks(cfg) {
		if !c.ok {
			return cfg, errors.New(c.msg)
		}
	}
	return cfg, nil
}

func loadServer(cfg *Config) {
	cfg.Port = getenv("PORT", "8080")
	cfg.ReadTimeout = getdur("READ_TIMEOUT", 15*time.Second)
	cfg.ReadHeaderTimeout = getdur("READ_HEADER_TIMEOUT", 10*time.Second)
	cfg.WriteTimeout = getdur("WRITE_TIMEOUT", 20*time.Second)
	cfg.IdleTimeout = getdur("IDLE_TIMEOUT", 60*time.Second)
	cfg.MaxHeaderBytes = getint("MAX_HEADER_BYTES", 1<<20)
	cfg.SwaggerEnabled = getbool("SWAGGER_ENABLED", false)
	cfg.APIBasePath = normalizeBasePath(getenv("API_BASE_PATH", "/api/v1"))
	cfg.LogPretty = getbool("LOG_PRETTY", false)

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode = strings.ToLower(getenv("GIN_MODE", "release")); cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
}

func loadRates(cfg *Config) {
	cfg.RateRPS = getfloat("RATE_RPS", 5.0)
	cfg.RateBurst = getint("RATE_BURST", 10)
	cfg.RateWriteRPS = getfloat("RATE_WRITE_RPS", 1.0)
	cfg.RateWriteBurst = getint("RATE_WRITE_BURST", 5)
}

func loadDB() DBConfig {
	return DBConfig{
		Driver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		Path:   getenv("DB_PATH", "foodgram.db"),
		DSN:    getenv("DB_DSN", ""),
	}
}

func loadRecipes() RecipeConfig {
	return RecipeConfig{
		CookingTimeMin: getint("COOKING_TIME_MIN", 1),
		CookingTimeMax: getint("COOKING_TIME_MAX", 1440),
		AmountMin:      getint("AMOUNT_MIN", 1),
		AmountMax:      getint("AMOUNT_MAX", 5000),
		PageSize:       getint("RECIPES_PAGE_SIZE", 6),
		MaxPageSize:    getint("MAX_PAGE_SIZE", 100),
	}
}

func loadOTEL() OTELConfig {
	return OTELConfig{
		Enabled:     getbool("OTEL_ENABLED", false),
		Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
		ServiceName: getenv("OTEL_SERVICE_NAME", "foodgram-backend"),
		SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		Environment: getenv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
	}
}

type check struct {
	ok  bool
	msg string
}

// checks lists the validation rules in reporting order; Load returns the
// first failure.
func checks(cfg Config) []check {
	rc := cfg.Recipes
	return []check{
		{validLogLevel(cfg.LogLevel), "LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"},
		{strings.TrimSpace(cfg.Port) != "", "PORT must not be empty"},
		{cfg.ReadTimeout > 0 && cfg.ReadHeaderTimeout > 0 && cfg.WriteTimeout > 0 && cfg.IdleTimeout > 0,
			"timeouts must be positive durations"},
		{cfg.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0"},
		{cfg.DB.Driver == "sqlite" || cfg.DB.Driver == "postgres", "DB_DRIVER must be one of: sqlite, postgres"},
		{cfg.DB.Driver != "sqlite" || strings.TrimSpace(cfg.DB.Path) != "", "DB_PATH must not be empty"},
		{cfg.DB.Driver != "postgres" || strings.TrimSpace(cfg.DB.DSN) != "", "DB_DSN must be set when DB_DRIVER=postgres"},
		{rc.CookingTimeMin >= 1 && rc.CookingTimeMax >= rc.CookingTimeMin, "COOKING_TIME_MIN must be >= 1 and <= COOKING_TIME_MAX"},
		{rc.AmountMin >= 1 && rc.AmountMax >= rc.AmountMin, "AMOUNT_MIN must be >= 1 and <= AMOUNT_MAX"},
		{rc.PageSize >= 1 && rc.MaxPageSize >= rc.PageSize, "RECIPES_PAGE_SIZE must be >= 1 and <= MAX_PAGE_SIZE"},
		{cfg.BcryptCost >= 4 && cfg.BcryptCost <= 31, "BCRYPT_COST must be between 4 and 31"},
		{cfg.RateRPS >= 0 && cfg.RateWriteRPS >= 0, "RATE_RPS and RATE_WRITE_RPS must be >= 0"},
		{cfg.RateBurst >= 1 && cfg.RateWriteBurst >= 1, "RATE_BURST and RATE_WRITE_BURST must be >= 1"},
		{cfg.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0"},
		{cfg.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0"},
		{cfg.OTEL.SampleRatio >= 0 && cfg.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
}

func validLogLevel(l string) bool {
	switch l {
	case "debug", "info", "warn", "error", "fatal", "panic":
		return true
	}
	return false
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if b, ok := sysutil.ParseFlag(os.Getenv(k)); ok {
		return b
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
