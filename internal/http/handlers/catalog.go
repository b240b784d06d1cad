// Catalog HTTP handlers: tags and ingredients.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/services"
)

// ListTags godoc
// @ID          listTags
// @Summary     List tags
// @Tags        Tags
// @Produce     json
// @Success     200  {array} domain.Tag
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	tags, err := h.d.Catalog.ListTags(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, tags)
}

// GetTag godoc
// @ID          getTag
// @Summary     Get a tag
// @Tags        Tags
// @Produce     json
// @Param       id  path  string  true  "Tag id"
// @Success     200  {object} domain.Tag
// @Failure     404  {object} handlers.ErrorResponse "Tag not found"
// @Router      /tags/{id} [get]
func (h *Handlers) GetTag(c *gin.Context) {
	t, err := h.d.Catalog.GetTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// CreateTag godoc
// @ID          createTag
// @Summary     Create a tag
// @Description Administrators only (ADMIN_USER_IDS). The slug is derived from the name when omitted. Name, color and slug are each unique.
// @Tags        Tags
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       body       body    handlers.TagRequest  true  "Tag payload"
// @Success     201  {object} domain.Tag
// @Failure     400  {object} handlers.ErrorResponse "Validation failed or tag exists"
// @Failure     401  {object} handlers.ErrorResponse "Anonymous caller"
// @Failure     403  {object} handlers.ErrorResponse "Caller is not an administrator"
// @Router      /tags [post]
func (h *Handlers) CreateTag(c *gin.Context) {
	if _, okUser := requireUser(c); !okUser {
		return
	}
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := bindError(err)
		failField(c, http.StatusBadRequest, ErrCodeValidation, field, msg)
		return
	}
	t, err := h.d.Catalog.CreateTag(c.Request.Context(), services.TagInput{
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     List ingredients
// @Description Case-insensitive name prefix search when ?name= is given.
// @Tags        Ingredients
// @Produce     json
// @Param       name  query  string  false "Name prefix"  example(fl)
// @Success     200  {array} domain.Ingredient
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	items, err := h.d.Catalog.ListIngredients(c.Request.Context(), strings.TrimSpace(c.Query("name")))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetIngredient godoc
// @ID          getIngredient
// @Summary     Get an ingredient
// @Tags        Ingredients
// @Produce     json
// @Param       id  path  string  true  "Ingredient id"
// @Success     200  {object} domain.Ingredient
// @Failure     404  {object} handlers.ErrorResponse "Ingredient not found"
// @Router      /ingredients/{id} [get]
func (h *Handlers) GetIngredient(c *gin.Context) {
	i, err := h.d.Catalog.GetIngredient(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, i)
}
