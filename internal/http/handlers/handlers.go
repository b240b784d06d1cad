// Package handlers exposes the Foodgram REST API:
//
//   - recipes:       list, get, create, update (PUT/PATCH), delete
//   - favorites:     POST/DELETE /recipes/{id}/favorite
//   - shopping cart: POST/DELETE /recipes/{id}/shopping_cart and the
//     aggregated download
//   - users:         register, list, get, me, set_password
//   - subscriptions: POST/DELETE /users/{id}/subscribe and the feed
//   - catalog:       tags and ingredients
//
// Handlers are transport-thin: they bind and validate input, call the
// application services, and translate results and service errors into HTTP
// responses.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/http/middleware"
	"github.com/tbourn/foodgram-backend/internal/repo"
	"github.com/tbourn/foodgram-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// RecipeService composes, reads and deletes recipes.
type RecipeService interface {
	Compose(ctx context.Context, authorID string, in services.RecipeInput) (*domain.Recipe, error)
	Recompose(ctx context.Context, actorID, id string, in services.RecipeInput, partial bool) (*domain.Recipe, error)
	Delete(ctx context.Context, actorID, id string) error
	Get(ctx context.Context, viewerID, id string) (*services.RecipeView, error)
	ListPage(ctx context.Context, viewerID string, f services.RecipeFilter, page, pageSize int) ([]services.RecipeView, int64, error)
	ListStamp(ctx context.Context, viewerID string, f services.RecipeFilter) (repo.RecipeSetStamp, error)
}

// RelationToggle adds and removes one kind of user relation to a target T.
type RelationToggle[T any] interface {
	Add(ctx context.Context, userID, targetID string) (*T, error)
	Remove(ctx context.Context, userID, targetID string) error
}

// ShoppingService aggregates a user's shopping cart.
type ShoppingService interface {
	List(ctx context.Context, userID string) ([]domain.ShoppingItem, error)
}

// UserService manages accounts, profiles and subscription feeds.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	SetPassword(ctx context.Context, userID, current, next string) error
	Get(ctx context.Context, viewerID, id string) (*services.UserView, error)
	ListPage(ctx context.Context, viewerID string, page, pageSize int) ([]services.UserView, int64, error)
	Author(ctx context.Context, viewerID, authorID string, recipesLimit int) (*services.AuthorView, error)
	Subscriptions(ctx context.Context, userID string, page, pageSize, recipesLimit int) ([]services.AuthorView, int64, error)
}

// CatalogService serves tags and ingredients.
type CatalogService interface {
	CreateTag(ctx context.Context, in services.TagInput) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
}

// IdempotencySaver records the resource created for an Idempotency-Key.
type IdempotencySaver func(ctx context.Context, userID, scope, key, resourceID string, status int) error

//
// Handler wiring
//

// Deps groups the services the handlers depend on.
type Deps struct {
	Recipes       RecipeService
	Favorites     RelationToggle[domain.Recipe]
	Cart          RelationToggle[domain.Recipe]
	Subscriptions RelationToggle[domain.User]
	Shopping      ShoppingService
	Users         UserService
	Catalog       CatalogService
	// SaveIdempotency is optional; without it keys are validated but not stored.
	SaveIdempotency IdempotencySaver
	// PageSize and MaxPageSize bound ?limit= on paginated lists.
	PageSize    int
	MaxPageSize int
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	d Deps
}

// New constructs Handlers bound to the given services.
func New(d Deps) *Handlers {
	if d.PageSize <= 0 {
		d.PageSize = 6
	}
	if d.MaxPageSize <= 0 {
		d.MaxPageSize = 100
	}
	return &Handlers{d: d}
}

// viewerID returns the caller's id, or "" for anonymous requests.
func viewerID(c *gin.Context) string { return middleware.UserID(c) }

// requireUser returns the caller's id or writes 401.
func requireUser(c *gin.Context) (string, bool) {
	uid := viewerID(c)
	if uid == "" {
		fail(c, 401, ErrCodeUnauthorized, "authentication required")
		return "", false
	}
	return uid, true
}
