package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
)

// RecipeSetStamp summarises a filtered set of recipes. Creating, deleting or
// recomposing a recipe in the set changes its stamp.
type RecipeSetStamp struct {
	Count        int64
	LatestUpdate time.Time // zero when Count is 0
}

// Version renders the stamp as an opaque token, e.g. for a weak ETag.
func (s RecipeSetStamp) Version() string {
	var ts int64
	if !s.LatestUpdate.IsZero() {
		ts = s.LatestUpdate.UnixNano()
	}
	return fmt.Sprintf("%d.%d", s.Count, ts)
}

// StampRecipes computes the stamp of the recipes matching q.
func StampRecipes(ctx context.Context, db *gorm.DB, q RecipeQuery) (RecipeSetStamp, error) {
	var st RecipeSetStamp
	scoped := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Recipe{}).Scopes(recipeFilter(q))
	}

	if err := scoped().Count(&st.Count).Error; err != nil || st.Count == 0 {
		return st, err
	}

	// MAX(updated_at) comes back as TEXT from SQLite; order instead.
	var latest struct{ UpdatedAt time.Time }
	err := scoped().Select("recipes.updated_at").Order("recipes.updated_at DESC").Limit(1).Scan(&latest).Error
	if err != nil {
		return RecipeSetStamp{}, err
	}
	st.LatestUpdate = latest.UpdatedAt
	return st, nil
}
