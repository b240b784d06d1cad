package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// world seeds two users, two tags and the flour/sugar/egg catalog.
type world struct {
	db     *gorm.DB
	alice  string
	bob    string
	tagA   string
	tagB   string
	flour  string
	sugar  string
	egg    string
	recipe *RecipeService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := newSvcDB(t)
	ctx := context.Background()
	w := &world{db: db, alice: "u-alice", bob: "u-bob", tagA: "t-breakfast", tagB: "t-lunch",
		flour: "i-flour", sugar: "i-sugar", egg: "i-egg"}

	for id, name := range map[string]string{w.alice: "alice", w.bob: "bob"} {
		u := &domain.User{ID: id, Email: name + "@example.com", Username: name, FirstName: "F", LastName: "L", PasswordHash: "x"}
		if err := repo.CreateUser(ctx, db, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	tags := []domain.Tag{
		{ID: w.tagA, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{ID: w.tagB, Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	}
	for i := range tags {
		if err := repo.CreateTag(ctx, db, &tags[i]); err != nil {
			t.Fatalf("seed tag: %v", err)
		}
	}
	if _, err := repo.CreateIngredients(ctx, db, []domain.Ingredient{
		{ID: w.flour, Name: "flour", MeasurementUnit: "g"},
		{ID: w.sugar, Name: "sugar", MeasurementUnit: "g"},
		{ID: w.egg, Name: "egg", MeasurementUnit: "pcs"},
	}); err != nil {
		t.Fatalf("seed ingredients: %v", err)
	}
	w.recipe = NewRecipeService(db, DefaultLimits())
	return w
}

func (w *world) input(name string, items ...IngredientAmount) RecipeInput {
	return RecipeInput{
		Name:        name,
		Text:        "How to make " + name,
		CookingTime: 30,
		TagIDs:      []string{w.tagA},
		Ingredients: items,
	}
}

func (w *world) compose(t *testing.T, author, name string, items ...IngredientAmount) *domain.Recipe {
	t.Helper()
	r, err := w.recipe.Compose(context.Background(), author, w.input(name, items...))
	if err != nil {
		t.Fatalf("Compose %q: %v", name, err)
	}
	return r
}

func amt(id string, n int) IngredientAmount { return IngredientAmount{IngredientID: id, Amount: n} }

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

// ruleOf extracts the failed rule name of a validation error.
func ruleOf(err error) string {
	if se, ok := err.(*Error); ok {
		return se.Rule
	}
	return ""
}
