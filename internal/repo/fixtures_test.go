package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

func dsnFor(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}

// newTestDB opens a unique in-memory database per test and migrates only the
// given models, so missing-table error paths stay reachable.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsnFor(t)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newStoreDB opens a fully migrated schema.
func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "x",
	}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}

func seedTag(t *testing.T, db *gorm.DB, id, name, color, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{ID: id, Name: name, Color: color, Slug: slug}
	if err := CreateTag(context.Background(), db, tag); err != nil {
		t.Fatalf("seed tag %s: %v", id, err)
	}
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, id, name, unit string) {
	t.Helper()
	if _, err := CreateIngredients(context.Background(), db, []domain.Ingredient{{ID: id, Name: name, MeasurementUnit: unit}}); err != nil {
		t.Fatalf("seed ingredient %s: %v", id, err)
	}
}

// seedRecipe creates a recipe with the given composition. createdAt orders
// listings deterministically.
func seedRecipe(t *testing.T, db *gorm.DB, id, authorID, name string, createdAt time.Time, tagIDs []string, items ...domain.RecipeIngredient) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{ID: id, AuthorID: authorID, Name: name, Text: "text of " + name, CookingTime: 10}
	ctx := context.Background()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := CreateRecipe(ctx, tx, r); err != nil {
			return err
		}
		return InsertComposition(ctx, tx, r.ID, tagIDs, items)
	})
	if err != nil {
		t.Fatalf("seed recipe %s: %v", id, err)
	}
	if !createdAt.IsZero() {
		if err := db.Model(&domain.Recipe{}).Where("id = ?", id).
			Updates(map[string]any{"created_at": createdAt, "updated_at": createdAt}).Error; err != nil {
			t.Fatalf("backdate recipe %s: %v", id, err)
		}
	}
	return r
}

func item(ingredientID string, amount int) domain.RecipeIngredient {
	return domain.RecipeIngredient{IngredientID: ingredientID, Amount: amount}
}
