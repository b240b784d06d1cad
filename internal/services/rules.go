package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/repo"
)

// Limits bounds the numeric fields of a recipe.
type Limits struct {
	CookingTimeMin int
	CookingTimeMax int
	AmountMin      int
	AmountMax      int
}

// DefaultLimits returns the stock bounds: 1..1440 minutes, 1..5000 units.
func DefaultLimits() Limits {
	return Limits{CookingTimeMin: 1, CookingTimeMax: 1440, AmountMin: 1, AmountMax: 5000}
}

const maxRecipeNameRunes = 200

// Rule is one named validation step of recipe composition. Check returns an
// empty message when the input passes and a human-readable reason when it
// fails; a non-nil error means the check itself could not run.
type Rule struct {
	Name  string
	Check func(ctx context.Context, db *gorm.DB, in RecipeInput, lim Limits) (string, error)
}

// RecipeRules is the ordered rule list applied by Compose and Recompose.
// Cheap structural rules come first; store lookups run last.
var RecipeRules = []Rule{
	{Name: "tags_required", Check: checkTagsRequired},
	{Name: "tags_unique", Check: checkTagsUnique},
	{Name: "ingredients_required", Check: checkIngredientsRequired},
	{Name: "ingredients_unique", Check: checkIngredientsUnique},
	{Name: "amount_range", Check: checkAmountRange},
	{Name: "cooking_time_range", Check: checkCookingTime},
	{Name: "name_required", Check: checkName},
	{Name: "text_required", Check: checkText},
	{Name: "tags_exist", Check: checkTagsExist},
	{Name: "ingredients_exist", Check: checkIngredientsExist},
}

// runRules applies rules in order and stops at the first failure.
func runRules(ctx context.Context, db *gorm.DB, rules []Rule, in RecipeInput, lim Limits) error {
	for _, r := range rules {
		msg, err := r.Check(ctx, db, in, lim)
		if err != nil {
			return err
		}
		if msg != "" {
			return validationError(r.Name, msg)
		}
	}
	return nil
}

func checkTagsRequired(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	if len(in.TagIDs) == 0 {
		return "at least one tag is required", nil
	}
	return "", nil
}

func checkTagsUnique(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	if id, dup := firstDuplicate(in.TagIDs); dup {
		return fmt.Sprintf("tag %s is listed more than once", id), nil
	}
	return "", nil
}

func checkIngredientsRequired(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	if len(in.Ingredients) == 0 {
		return "at least one ingredient is required", nil
	}
	return "", nil
}

func checkIngredientsUnique(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	if id, dup := firstDuplicate(in.ingredientIDs()); dup {
		return fmt.Sprintf("ingredient %s is listed more than once", id), nil
	}
	return "", nil
}

func checkAmountRange(_ context.Context, _ *gorm.DB, in RecipeInput, lim Limits) (string, error) {
	for _, it := range in.Ingredients {
		if it.Amount < lim.AmountMin || it.Amount > lim.AmountMax {
			return fmt.Sprintf("amount of ingredient %s must be between %d and %d", it.IngredientID, lim.AmountMin, lim.AmountMax), nil
		}
	}
	return "", nil
}

func checkCookingTime(_ context.Context, _ *gorm.DB, in RecipeInput, lim Limits) (string, error) {
	if in.CookingTime < lim.CookingTimeMin || in.CookingTime > lim.CookingTimeMax {
		return fmt.Sprintf("cooking time must be between %d and %d minutes", lim.CookingTimeMin, lim.CookingTimeMax), nil
	}
	return "", nil
}

func checkName(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "name must not be blank", nil
	}
	if utf8.RuneCountInString(name) > maxRecipeNameRunes {
		return fmt.Sprintf("name must be at most %d characters", maxRecipeNameRunes), nil
	}
	return "", nil
}

func checkText(_ context.Context, _ *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	if strings.TrimSpace(in.Text) == "" {
		return "text must not be blank", nil
	}
	return "", nil
}

func checkTagsExist(ctx context.Context, db *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	found, err := repo.ExistingTagIDs(ctx, db, in.TagIDs)
	if err != nil {
		return "", err
	}
	if id, missing := firstMissing(in.TagIDs, found); missing {
		return fmt.Sprintf("tag %s does not exist", id), nil
	}
	return "", nil
}

func checkIngredientsExist(ctx context.Context, db *gorm.DB, in RecipeInput, _ Limits) (string, error) {
	ids := in.ingredientIDs()
	found, err := repo.ExistingIngredientIDs(ctx, db, ids)
	if err != nil {
		return "", err
	}
	if id, missing := firstMissing(ids, found); missing {
		return fmt.Sprintf("ingredient %s does not exist", id), nil
	}
	return "", nil
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}

func firstMissing(want, found []string) (string, bool) {
	have := make(map[string]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}
	return "", false
}
