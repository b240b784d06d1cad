package domain

// RelationKind identifies one of the binary user relations handled by the
// relation toggle.
type RelationKind int

const (
	// RelationFavorite links a user to a favorited recipe.
	RelationFavorite RelationKind = iota + 1
	// RelationShoppingCart links a user to a recipe in their cart.
	RelationShoppingCart
	// RelationSubscription links a follower to a followed author.
	RelationSubscription
)

// String returns a stable, log- and metric-friendly name for the kind.
func (k RelationKind) String() string {
	switch k {
	case RelationFavorite:
		return "favorite"
	case RelationShoppingCart:
		return "shopping_cart"
	case RelationSubscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// Models returns every persisted model in dependency order (referenced
// tables first), suitable for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCartEntry{},
		&Subscription{},
		&Idempotency{},
	}
}
