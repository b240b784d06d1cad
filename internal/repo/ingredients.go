package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// ingredientBatchSize bounds the rows per INSERT during bulk imports.
const ingredientBatchSize = 500

// FoldName applies Unicode case folding, so "Мука", "МУКА" and "мука" all
// fold to the same key.
func FoldName(s string) string { return cases.Fold().String(s) }

// CreateIngredients bulk-inserts rows, assigning UUIDs where missing and
// filling NameFolded, and returns the number of rows written.
func CreateIngredients(ctx context.Context, db *gorm.DB, rows []domain.Ingredient) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		rows[i].NameFolded = FoldName(rows[i].Name)
	}
	res := db.WithContext(ctx).CreateInBatches(rows, ingredientBatchSize)
	return res.RowsAffected, res.Error
}

// ListIngredients returns ingredients whose name starts with prefix,
// ignoring case in any script, ordered by name. An empty prefix lists
// everything.
func ListIngredients(ctx context.Context, db *gorm.DB, prefix string) ([]domain.Ingredient, error) {
	out := []domain.Ingredient{}
	q := db.WithContext(ctx).Model(&domain.Ingredient{})
	if prefix != "" {
		q = q.Where(`name_folded LIKE ? ESCAPE '\'`, escapeLike(FoldName(prefix))+"%")
	}
	err := q.Order("name asc").Order("measurement_unit asc").Find(&out).Error
	return out, err
}

// GetIngredient fetches an ingredient by ID, or ErrNotFound.
func GetIngredient(ctx context.Context, db *gorm.DB, id string) (*domain.Ingredient, error) {
	var in domain.Ingredient
	if err := db.WithContext(ctx).Where("id = ?", id).First(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// ExistingIngredientIDs returns the subset of ids present in the ingredients
// table.
func ExistingIngredientIDs(ctx context.Context, db *gorm.DB, ids []string) ([]string, error) {
	return existingIDs(ctx, db, &domain.Ingredient{}, ids)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
