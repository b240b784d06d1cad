// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipe resources:
//   - GET    /recipes        (list, paginated, filterable, ETag for anonymous viewers)
//   - GET    /recipes/{id}   (detail)
//   - POST   /recipes        (compose; Idempotency-Key aware)
//   - PUT    /recipes/{id}   (full recompose)
//   - PATCH  /recipes/{id}   (recompose keeping omitted scalar fields)
//   - DELETE /recipes/{id}
//
// Idempotency:
// If the client supplies an Idempotency-Key and a previous create with the
// same key exists for the caller, the stored recipe is returned with
// `Idempotency-Replayed: true` and nothing new is created.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/http/middleware"
	"github.com/tbourn/foodgram-backend/internal/services"
	"github.com/tbourn/foodgram-backend/internal/sysutil"
	"github.com/tbourn/foodgram-backend/internal/utils"
)

// recipeFilter reads the list filters from the query string.
func recipeFilter(c *gin.Context) services.RecipeFilter {
	f := services.RecipeFilter{
		AuthorID: strings.TrimSpace(c.Query("author")),
		TagSlugs: c.QueryArray("tags"),
	}
	f.Favorited = queryFlag(c, "is_favorited")
	f.InCart = queryFlag(c, "is_in_shopping_cart")
	return f
}

// queryFlag returns nil when the flag is absent or unreadable, which leaves
// the filter off.
func queryFlag(c *gin.Context, name string) *bool {
	if b, ok := sysutil.ParseFlag(c.Query(name)); ok {
		return &b
	}
	return nil
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes (paginated)
// @Description Returns recipes newest first. Anonymous responses carry a weak ETag and may return 304.
// @Tags        Recipes
// @Produce     json
//
// @Param       X-User-ID            header  string   false "Caller's user id"              example(2f0a7e44-0c55-4c4b-9a57-7f1d3a3c9a10)
// @Param       If-None-Match        header  string   false "Return 304 if ETag matches"
// @Param       page                 query   int      false "Page number"                   minimum(1) default(1)
// @Param       limit                query   int      false "Items per page"                minimum(1) maximum(100) default(6)
// @Param       author               query   string   false "Author id"
// @Param       tags                 query   []string false "Tag slugs (any match)"         collectionFormat(multi)
// @Param       is_favorited         query   int      false "Only the caller's favorites"   Enums(0, 1)
// @Param       is_in_shopping_cart  query   int      false "Only recipes in the caller's cart" Enums(0, 1)
//
// @Success     200  {object} handlers.ListRecipesResponse
// @Header      200  {string} ETag "Weak ETag (anonymous viewers only)"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	uid := viewerID(c)
	page, limit := utils.ClampPage(c.Query("page"), c.Query("limit"), h.d.PageSize, h.d.MaxPageSize)
	f := recipeFilter(c)

	// Viewer flags change per user, so only anonymous lists are cacheable.
	if uid == "" {
		if stamp, err := h.d.Recipes.ListStamp(ctx, uid, f); err == nil {
			etag := fmt.Sprintf(`W/"recipes:%s:%s"`, stamp.Version(), c.Request.URL.RawQuery)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.d.Recipes.ListPage(ctx, uid, f, page, limit)
	if err != nil {
		failService(c, err)
		return
	}

	results := make([]RecipeResponse, len(items))
	for i := range items {
		results[i] = recipeResponse(items[i])
	}
	ok(c, http.StatusOK, ListRecipesResponse{
		Results:    results,
		Pagination: pagination(page, limit, total, utils.PageCount(total, limit)),
	})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Tags        Recipes
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
//
// @Success     200  {object} handlers.RecipeResponse
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	v, err := h.d.Recipes.Get(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, recipeResponse(*v))
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Composes a recipe with its tags and ingredient amounts in one transaction.
// @Description Supports idempotency via the Idempotency-Key header (same key → same recipe).
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Caller's user id"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.RecipeRequest  true  "Recipe payload"
//
// @Success     201  {object} handlers.RecipeResponse
// @Header      201  {string} Idempotency-Replayed "true when answered from a previous request"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed or recipe exists"
// @Failure     401  {object} handlers.ErrorResponse "Authentication required"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	ctx := c.Request.Context()

	if rid, replay := middleware.ReplayResourceID(c); replay {
		if v, err := h.d.Recipes.Get(ctx, uid, rid); err == nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusCreated, recipeResponse(*v))
			return
		}
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := bindError(err)
		failField(c, http.StatusBadRequest, ErrCodeValidation, field, msg)
		return
	}

	r, err := h.d.Recipes.Compose(ctx, uid, req.input())
	if err != nil {
		failService(c, err)
		return
	}

	if key, has := middleware.GetIdempotencyKey(c); has && h.d.SaveIdempotency != nil {
		if err := h.d.SaveIdempotency(ctx, uid, middleware.IdempotencyScope(c), key, r.ID, http.StatusCreated); err != nil {
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(err).Str("recipe_id", r.ID).Msg("idempotency record not saved")
		}
	}

	h.writeRecipe(c, http.StatusCreated, uid, r.ID)
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Replace a recipe
// @Description Replaces every field and the whole tag and ingredient composition. Author only.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Param       body       body    handlers.RecipeRequest  true  "Recipe payload"
//
// @Success     200  {object} handlers.RecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) { h.recompose(c, false) }

// PatchRecipe godoc
// @ID          patchRecipe
// @Summary     Update a recipe
// @Description Like PUT, but blank name, text, image and cooking_time keep their stored values.
// @Description Tags and ingredients are still replaced as a whole and are required.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
// @Param       body       body    handlers.RecipeRequest  true  "Recipe payload"
//
// @Success     200  {object} handlers.RecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id} [patch]
func (h *Handlers) PatchRecipe(c *gin.Context) { h.recompose(c, true) }

func (h *Handlers) recompose(c *gin.Context, partial bool) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := bindError(err)
		failField(c, http.StatusBadRequest, ErrCodeValidation, field, msg)
		return
	}
	r, err := h.d.Recipes.Recompose(c.Request.Context(), uid, c.Param("id"), req.input(), partial)
	if err != nil {
		failService(c, err)
		return
	}
	h.writeRecipe(c, http.StatusOK, uid, r.ID)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Deletes the recipe with its composition and every favorite and cart entry pointing at it. Author only.
// @Tags        Recipes
//
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       id         path    string  true  "Recipe id"
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	if err := h.d.Recipes.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// writeRecipe answers with the recipe as seen by uid.
func (h *Handlers) writeRecipe(c *gin.Context, status int, uid, id string) {
	v, err := h.d.Recipes.Get(c.Request.Context(), uid, id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, status, recipeResponse(*v))
}
