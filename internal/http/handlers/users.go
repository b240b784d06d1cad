// User HTTP handlers.
//
// This file exposes REST endpoints for accounts and the subscription feed:
//   - POST /users                    (register)
//   - GET  /users                    (list, paginated)
//   - GET  /users/me                 (caller's profile)
//   - GET  /users/{id}               (public profile)
//   - POST /users/set_password
//   - GET  /users/subscriptions      (followed authors with recipe previews)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/services"
	"github.com/tbourn/foodgram-backend/internal/utils"
)

// RegisterUser godoc
// @ID          registerUser
// @Summary     Register a user
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body    handlers.RegisterRequest  true  "Registration payload"
// @Success     201  {object} handlers.UserResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed or user exists"
// @Router      /users [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := bindError(err)
		failField(c, http.StatusBadRequest, ErrCodeValidation, field, msg)
		return
	}
	u, err := h.d.Users.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, userResponse(*u, false))
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users (paginated)
// @Tags        Users
// @Produce     json
// @Param       X-User-ID  header  string  false "Caller's user id"
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       limit      query   int     false "Items per page"  minimum(1) maximum(100) default(6)
// @Success     200  {object} handlers.ListUsersResponse
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	page, limit := utils.ClampPage(c.Query("page"), c.Query("limit"), h.d.PageSize, h.d.MaxPageSize)
	items, total, err := h.d.Users.ListPage(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		failService(c, err)
		return
	}
	results := make([]UserResponse, len(items))
	for i := range items {
		results[i] = userResponse(items[i].User, items[i].IsSubscribed)
	}
	ok(c, http.StatusOK, ListUsersResponse{
		Results:    results,
		Pagination: pagination(page, limit, total, utils.PageCount(total, limit)),
	})
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Tags        Users
// @Produce     json
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Success     200  {object} handlers.UserResponse
// @Failure     401  {object} handlers.ErrorResponse "Authentication required"
// @Router      /users/me [get]
func (h *Handlers) Me(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	h.writeUser(c, uid, uid)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user profile
// @Tags        Users
// @Produce     json
// @Param       X-User-ID  header  string  false "Caller's user id"
// @Param       id         path    string  true  "User id"
// @Success     200  {object} handlers.UserResponse
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	h.writeUser(c, viewerID(c), c.Param("id"))
}

func (h *Handlers) writeUser(c *gin.Context, viewer, id string) {
	u, err := h.d.Users.Get(c.Request.Context(), viewer, id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, userResponse(u.User, u.IsSubscribed))
}

// SetPassword godoc
// @ID          setPassword
// @Summary     Change the caller's password
// @Tags        Users
// @Accept      json
// @Param       X-User-ID  header  string  true  "Caller's user id"
// @Param       body       body    handlers.SetPasswordRequest  true  "Passwords"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Wrong current password or invalid new password"
// @Failure     401  {object} handlers.ErrorResponse "Authentication required"
// @Router      /users/set_password [post]
func (h *Handlers) SetPassword(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := bindError(err)
		failField(c, http.StatusBadRequest, ErrCodeValidation, field, msg)
		return
	}
	if err := h.d.Users.SetPassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     Followed authors (paginated)
// @Description Authors the caller follows, each with their newest recipes. Following nobody is an empty page.
// @Tags        Subscriptions
// @Produce     json
// @Param       X-User-ID      header  string  true  "Caller's user id"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       limit          query   int     false "Items per page"  minimum(1) maximum(100) default(6)
// @Param       recipes_limit  query   int     false "Recipes shown per author (all when omitted)"  minimum(1)
// @Success     200  {object} handlers.ListAuthorsResponse
// @Failure     401  {object} handlers.ErrorResponse "Authentication required"
// @Router      /users/subscriptions [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	page, limit := utils.ClampPage(c.Query("page"), c.Query("limit"), h.d.PageSize, h.d.MaxPageSize)
	items, total, err := h.d.Users.Subscriptions(c.Request.Context(), uid, page, limit, recipesLimit(c))
	if err != nil {
		failService(c, err)
		return
	}
	results := make([]AuthorResponse, len(items))
	for i := range items {
		results[i] = authorResponse(items[i])
	}
	ok(c, http.StatusOK, ListAuthorsResponse{
		Results:    results,
		Pagination: pagination(page, limit, total, utils.PageCount(total, limit)),
	})
}
