// Package repo is the entity store: GORM-backed persistence for users, tags,
// ingredients, recipes, relations and idempotency records. Functions take a
// context and a *gorm.DB so callers can pass a transaction.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type poolSettings struct {
	maxOpen, maxIdle int
	idleTime, life   time.Duration
}

// SQLite serialises writers anyway; Postgres gets a wider pool.
var pools = map[string]poolSettings{
	DriverSQLite:   {maxOpen: 10, maxIdle: 10, idleTime: 5 * time.Minute, life: 30 * time.Minute},
	DriverPostgres: {maxOpen: 25, maxIdle: 10, idleTime: 5 * time.Minute, life: 30 * time.Minute},
}

// sqlitePragmas travel in the DSN so every pooled connection gets them.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open connects to the store selected by driver: path addresses a SQLite
// file, dsn a Postgres database. An empty driver means SQLite.
func Open(driver, path, dsn string) (*gorm.DB, error) {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "", DriverSQLite:
		return OpenSQLite(path)
	case DriverPostgres:
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// OpenSQLite opens or creates the SQLite file at path. The parent directory
// must exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("sqlite directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, tune(db, pools[DriverSQLite])
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=" + strings.Join(sqlitePragmas, "&_pragma=")
}

// OpenPostgres connects with a libpq keyword or URL DSN. Driver errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return db, tune(db, pools[DriverPostgres])
}

func tune(db *gorm.DB, p poolSettings) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxIdleTime(p.idleTime)
	sqlDB.SetConnMaxLifetime(p.life)
	return nil
}

// Ping reports whether the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// EnableTracing registers the OpenTelemetry GORM plugin so every statement
// produces a child span of the request span carried in ctx.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates or updates every table. The recipe/tag join table is
// registered first so GORM uses RecipeTag (with its cascades) for it.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Recipe{}, "Tags", &domain.RecipeTag{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return err
	}
	return backfillFoldedNames(db)
}

// backfillFoldedNames fills name_folded on ingredient rows written before
// the column existed.
func backfillFoldedNames(db *gorm.DB) error {
	var rows []domain.Ingredient
	if err := db.Select("id", "name").Where("name_folded = ''").Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		if err := db.Model(&domain.Ingredient{}).Where("id = ?", r.ID).
			Update("name_folded", FoldName(r.Name)).Error; err != nil {
			return err
		}
	}
	return nil
}
