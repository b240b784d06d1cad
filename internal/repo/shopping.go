package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// AggregateShoppingList sums the ingredient amounts of every recipe in
// userID's cart in one query, grouped by (ingredient name, measurement unit)
// and ordered by name then unit. Ingredients sharing a name but not a unit
// stay on separate lines. An empty cart yields an empty, non-nil slice.
func AggregateShoppingList(ctx context.Context, db *gorm.DB, userID string) ([]domain.ShoppingItem, error) {
	out := []domain.ShoppingItem{}
	err := db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS unit, COALESCE(SUM(ri.amount), 0) AS amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_cart_entries AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ShoppingItem{}
	}
	return out, nil
}
