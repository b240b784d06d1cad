// Package domain defines the persistence models for users, recipes and their
// reference data (tags, ingredients), the recipe association tables, and the
// user relations (favorites, shopping cart, subscriptions). These types are
// mapped with GORM and form the core data layer of the recipe service.
package domain

import "time"

// User is a registered account. Users author recipes and hold the favorite,
// shopping-cart and subscription relations.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email / Username: both unique.
//   - PasswordHash: bcrypt hash; never serialized.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"      gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	Username     string    `json:"username"   gorm:"type:varchar(150);not null;uniqueIndex:ux_users_username"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(150);not null"`
	LastName     string    `json:"last_name"  gorm:"type:varchar(150);not null"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Tag is reference data attached to recipes. Name, color and slug are each
// unique; color is a six-digit HEX string such as "#E26C2D".
type Tag struct {
	ID    string `json:"id"    gorm:"type:char(36);primaryKey"`
	Name  string `json:"name"  gorm:"type:varchar(30);not null;uniqueIndex:ux_tags_name"`
	Color string `json:"color" gorm:"type:varchar(7);not null;uniqueIndex:ux_tags_color"`
	Slug  string `json:"slug"  gorm:"type:varchar(200);not null;uniqueIndex:ux_tags_slug"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Ingredient is immutable reference data. Several rows may share a name;
// the shopping list groups by (name, measurement unit) rather than by ID.
type Ingredient struct {
	ID              string `json:"id"               gorm:"type:char(36);primaryKey"`
	Name            string `json:"name"             gorm:"type:varchar(200);not null;index:idx_ingredients_name"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(200);not null"`
	// NameFolded is Name after Unicode case folding; prefix search runs
	// against it because SQLite LOWER() only folds ASCII.
	NameFolded string `json:"-" gorm:"type:varchar(200);not null;default:'';index:idx_ingredients_name_folded"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Recipe is a user-authored recipe. The pair (name, text) is unique.
// Its ingredient list and tag set live in the RecipeIngredient and RecipeTag
// association tables and are always replaced as a whole.
type Recipe struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AuthorID    string    `json:"author_id"    gorm:"type:char(36);not null;index:idx_recipes_author"`
	Name        string    `json:"name"         gorm:"type:varchar(200);not null;uniqueIndex:ux_recipes_name_text,priority:1"`
	Image       string    `json:"image"        gorm:"type:text;not null;default:''"`
	Text        string    `json:"text"         gorm:"type:text;not null;uniqueIndex:ux_recipes_name_text,priority:2"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time > 0"`
	CreatedAt   time.Time `json:"created_at"   gorm:"index:idx_recipes_created"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Author owns the recipe; recipes are cascade-deleted with their author.
	Author User `json:"author" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Tags is loaded through the recipe_tags join table.
	Tags []Tag `json:"tags" gorm:"many2many:recipe_tags;joinForeignKey:RecipeID;joinReferences:TagID"`
	// Ingredients holds the association rows with their amounts.
	Ingredients []RecipeIngredient `json:"ingredients" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient is the recipe/ingredient association carrying an amount.
// The composite primary key guarantees one row per distinct ingredient in a
// recipe.
type RecipeIngredient struct {
	RecipeID     string `json:"-"      gorm:"type:char(36);primaryKey"`
	IngredientID string `json:"id"     gorm:"type:char(36);primaryKey;index:idx_recipe_ingredients_ingredient"`
	Amount       int    `json:"amount" gorm:"not null;check:amount > 0"`

	// Ingredient is the referenced reference row (preloaded for rendering).
	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RecipeIngredient.
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// RecipeTag is the recipe/tag association. The composite primary key
// guarantees a tag is attached at most once per recipe.
type RecipeTag struct {
	RecipeID string `gorm:"type:char(36);primaryKey"`
	TagID    string `gorm:"type:char(36);primaryKey;index:idx_recipe_tags_tag"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tag    Tag    `gorm:"foreignKey:TagID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RecipeTag.
func (RecipeTag) TableName() string { return "recipe_tags" }

// Favorite marks a recipe as favorited by a user. Unique per (user, recipe).
type Favorite struct {
	UserID    string    `gorm:"type:char(36);primaryKey"`
	RecipeID  string    `gorm:"type:char(36);primaryKey;index:idx_favorites_recipe"`
	CreatedAt time.Time `gorm:"not null"`

	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// ShoppingCartEntry puts a recipe in a user's shopping cart. Unique per
// (user, recipe).
type ShoppingCartEntry struct {
	UserID    string    `gorm:"type:char(36);primaryKey"`
	RecipeID  string    `gorm:"type:char(36);primaryKey;index:idx_cart_recipe"`
	CreatedAt time.Time `gorm:"not null"`

	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ShoppingCartEntry.
func (ShoppingCartEntry) TableName() string { return "shopping_cart_entries" }

// Subscription records that UserID follows AuthorID. Unique per pair and a
// user can never follow themselves (enforced by a CHECK constraint).
type Subscription struct {
	UserID    string    `gorm:"type:char(36);primaryKey"`
	AuthorID  string    `gorm:"type:char(36);primaryKey;index:idx_subscriptions_author;check:chk_subscriptions_not_self,user_id <> author_id"`
	CreatedAt time.Time `gorm:"not null"`

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Unit   string `json:"measurement_unit"`
}
