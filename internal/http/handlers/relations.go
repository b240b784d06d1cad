// Relation HTTP handlers.
//
// Favorites, shopping cart entries and subscriptions share one add/remove
// state machine:
//   - POST   /recipes/{id}/favorite       DELETE /recipes/{id}/favorite
//   - POST   /recipes/{id}/shopping_cart  DELETE /recipes/{id}/shopping_cart
//   - POST   /users/{id}/subscribe        DELETE /users/{id}/subscribe
//
// Adding an existing relation or removing a missing one is a 400 with code
// relation_exists / relation_not_found. GET /recipes/download_shopping_cart
// returns the aggregated cart as plain text.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/services"
	"github.com/tbourn/foodgram-backend/internal/utils"
)

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Add a recipe to favorites
// @Tags        Favorites
// @Produce     json
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Success     201  {object} handlers.RecipeShort
// @Failure     400  {object} handlers.ErrorResponse "Already in favorites"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id}/favorite [post]
func (h *Handlers) AddFavorite(c *gin.Context) { h.addRecipeRelation(c, h.d.Favorites) }

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Remove a recipe from favorites
// @Tags        Favorites
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not in favorites"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id}/favorite [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) { removeRelation(c, h.d.Favorites) }

// AddToCart godoc
// @ID          addToCart
// @Summary     Add a recipe to the shopping cart
// @Tags        Shopping cart
// @Produce     json
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Success     201  {object} handlers.RecipeShort
// @Failure     400  {object} handlers.ErrorResponse "Already in the cart"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id}/shopping_cart [post]
func (h *Handlers) AddToCart(c *gin.Context) { h.addRecipeRelation(c, h.d.Cart) }

// RemoveFromCart godoc
// @ID          removeFromCart
// @Summary     Remove a recipe from the shopping cart
// @Tags        Shopping cart
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not in the cart"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id}/shopping_cart [delete]
func (h *Handlers) RemoveFromCart(c *gin.Context) { removeRelation(c, h.d.Cart) }

// DownloadShoppingCart godoc
// @ID          downloadShoppingCart
// @Summary     Download the shopping list
// @Description Sums the ingredients of every recipe in the cart, one "name - amount unit" line per ingredient and unit.
// @Tags        Shopping cart
// @Produce     plain
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Success     200  {string} string "shopping-list.txt"
// @Failure     401  {object} handlers.ErrorResponse "Authentication required"
// @Router      /recipes/download_shopping_cart [get]
func (h *Handlers) DownloadShoppingCart(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	items, err := h.d.Shopping.List(c.Request.Context(), uid)
	if err != nil {
		failService(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping-list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(services.RenderShoppingList(items)))
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Subscribe to an author
// @Tags        Subscriptions
// @Produce     json
// @Param       X-User-ID      header  string  true  "Caller's user id"
// @Param       id             path    string  true  "Author id"
// @Param       recipes_limit  query   int     false "Recipes shown per author (all when omitted)"  minimum(1)
// @Success     201  {object} handlers.AuthorResponse
// @Failure     400  {object} handlers.ErrorResponse "Already subscribed or self subscription"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{id}/subscribe [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	ctx := c.Request.Context()
	author, err := h.d.Subscriptions.Add(ctx, uid, c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	av, err := h.d.Users.Author(ctx, uid, author.ID, recipesLimit(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, authorResponse(*av))
}

// Unsubscribe godoc
// @ID          unsubscribe
// @Summary     Unsubscribe from an author
// @Tags        Subscriptions
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Author id"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not subscribed"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{id}/subscribe [delete]
func (h *Handlers) Unsubscribe(c *gin.Context) { removeRelation(c, h.d.Subscriptions) }

func (h *Handlers) addRecipeRelation(c *gin.Context, t RelationToggle[domain.Recipe]) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	r, err := t.Add(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, recipeShort(*r))
}

func removeRelation[T any](c *gin.Context, t RelationToggle[T]) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	if err := t.Remove(c.Request.Context(), uid, c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// recipesLimit reads ?recipes_limit=; zero means no limit.
func recipesLimit(c *gin.Context) int {
	n := utils.AtoiDefault(c.Query("recipes_limit"), 0)
	if n < 0 {
		return 0
	}
	return n
}
