// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// aggregate: the recipe row itself and its composition (the ingredient and
// tag association rows).
//
// Composition writes never go through GORM's association auto-save; the rows
// are inserted explicitly so callers control them inside one transaction:
//
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    if err := repo.CreateRecipe(ctx, tx, r); err != nil {
//	        return err
//	    }
//	    return repo.InsertComposition(ctx, tx, r.ID, tagIDs, items)
//	})
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// RecipeQuery narrows a recipe listing. Zero values mean "no filter".
//
// Favorited and InCart only apply when ViewerID is set: true keeps the
// recipes related to the viewer, false excludes them.
type RecipeQuery struct {
	AuthorID  string
	TagSlugs  []string
	ViewerID  string
	Favorited *bool
	InCart    *bool
}

// CreateRecipe inserts the recipe row only; associations are omitted.
// A (name, text) collision yields ErrDuplicate.
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateRecipeFields overwrites the scalar columns of recipe id.
// It returns ErrNotFound when no row matches and ErrDuplicate on a
// (name, text) collision.
func UpdateRecipeFields(ctx context.Context, db *gorm.DB, id, name, text, image string, cookingTime int) error {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":         name,
			"text":         text,
			"image":        image,
			"cooking_time": cookingTime,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertComposition bulk-inserts the tag and ingredient association rows of
// recipeID. A repeated pair violates the composite primary key and yields
// ErrDuplicate.
func InsertComposition(ctx context.Context, db *gorm.DB, recipeID string, tagIDs []string, items []domain.RecipeIngredient) error {
	if len(tagIDs) > 0 {
		tags := make([]domain.RecipeTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			tags = append(tags, domain.RecipeTag{RecipeID: recipeID, TagID: id})
		}
		if err := db.WithContext(ctx).Omit(clause.Associations).Create(&tags).Error; err != nil {
			return mapInsertErr(err)
		}
	}
	if len(items) > 0 {
		rows := make([]domain.RecipeIngredient, 0, len(items))
		for _, it := range items {
			rows = append(rows, domain.RecipeIngredient{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount})
		}
		if err := db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
			return mapInsertErr(err)
		}
	}
	return nil
}

// DeleteComposition removes every tag and ingredient association row of
// recipeID.
func DeleteComposition(ctx context.Context, db *gorm.DB, recipeID string) error {
	if err := db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error
}

// DeleteRecipe removes recipe id together with its composition, favorites
// and cart entries. The dependent rows are deleted explicitly so the result
// does not hinge on the driver enforcing ON DELETE CASCADE.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	for _, dep := range []any{&domain.Favorite{}, &domain.ShoppingCartEntry{}} {
		if err := db.WithContext(ctx).Where("recipe_id = ?", id).Delete(dep).Error; err != nil {
			return err
		}
	}
	if err := DeleteComposition(ctx, db, id); err != nil {
		return err
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRecipe fetches a recipe with its author, tags and ingredients loaded,
// or ErrNotFound.
func GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := withRecipeGraph(db.WithContext(ctx)).
		Where("recipes.id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecipeRow fetches only the recipe row (no associations), or ErrNotFound.
func GetRecipeRow(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountRecipes returns how many recipes match q.
func CountRecipes(ctx context.Context, db *gorm.DB, q RecipeQuery) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Scopes(recipeFilter(q)).
		Count(&total).Error
	return total, err
}

// ListRecipesPage returns a page of recipes matching q, newest first, with
// the full graph loaded.
func ListRecipesPage(ctx context.Context, db *gorm.DB, q RecipeQuery, offset, limit int) ([]domain.Recipe, error) {
	out := []domain.Recipe{}
	err := withRecipeGraph(db.WithContext(ctx)).
		Scopes(recipeFilter(q)).
		Order("recipes.created_at desc").
		Order("recipes.id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAuthorRecipes returns the newest recipes of authorID without
// associations. A non-positive limit returns all of them.
func ListAuthorRecipes(ctx context.Context, db *gorm.DB, authorID string, limit int) ([]domain.Recipe, error) {
	out := []domain.Recipe{}
	q := db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountRecipesByAuthor returns recipe counts keyed by author ID. Authors
// without recipes are absent from the map.
func CountRecipesByAuthor(ctx context.Context, db *gorm.DB, authorIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID string
		Total    int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AuthorID] = r.Total
	}
	return out, nil
}

func withRecipeGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.ingredient_id asc") }).
		Preload("Ingredients.Ingredient")
}

// recipeFilter translates q into EXISTS subqueries so that a recipe matching
// several tags is still returned once.
func recipeFilter(q RecipeQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.AuthorID != "" {
			db = db.Where("recipes.author_id = ?", q.AuthorID)
		}
		if len(q.TagSlugs) > 0 {
			db = db.Where(`EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
				WHERE rt.recipe_id = recipes.id AND t.slug IN ?)`, q.TagSlugs)
		}
		if q.ViewerID == "" {
			return db
		}
		if q.Favorited != nil {
			db = relationExists(db, "favorites", q.ViewerID, *q.Favorited)
		}
		if q.InCart != nil {
			db = relationExists(db, "shopping_cart_entries", q.ViewerID, *q.InCart)
		}
		return db
	}
}

func relationExists(db *gorm.DB, table, userID string, want bool) *gorm.DB {
	sub := "EXISTS (SELECT 1 FROM " + table + " x WHERE x.recipe_id = recipes.id AND x.user_id = ?)"
	if !want {
		sub = "NOT " + sub
	}
	return db.Where(sub, userID)
}

func mapInsertErr(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
