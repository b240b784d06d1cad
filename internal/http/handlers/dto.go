package handlers

import (
	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/services"
)

//
// Requests
//

// IngredientAmountRequest is one ingredient line of a recipe payload.
type IngredientAmountRequest struct {
	ID     string `json:"id" binding:"required" example:"1b0c7a5e-5b8e-4c43-8f4e-1c2d8a1f0e11"`
	Amount int    `json:"amount" example:"200"`
}

// RecipeRequest is the payload of POST/PUT/PATCH /recipes.
type RecipeRequest struct {
	Name        string                    `json:"name" binding:"max=200" example:"Pancakes"`
	Text        string                    `json:"text" example:"Mix, rest ten minutes, fry."`
	Image       string                    `json:"image" example:"data:image/png;base64,iVBORw0KGgo="`
	CookingTime int                       `json:"cooking_time" example:"25"`
	Tags        []string                  `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"dive"`
}

func (r RecipeRequest) input() services.RecipeInput {
	items := make([]services.IngredientAmount, len(r.Ingredients))
	for i, it := range r.Ingredients {
		items[i] = services.IngredientAmount{IngredientID: it.ID, Amount: it.Amount}
	}
	return services.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: items,
	}
}

// TagRequest is the payload of POST /tags.
type TagRequest struct {
	Name  string `json:"name" binding:"required,max=30" example:"Breakfast"`
	Color string `json:"color" binding:"required,hexcolor6" example:"#E26C2D"`
	Slug  string `json:"slug" binding:"omitempty,max=200" example:"breakfast"`
}

// RegisterRequest is the payload of POST /users.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254" example:"vpupkin@yandex.ru"`
	Username  string `json:"username" binding:"required,max=150,username" example:"vasya.pupkin"`
	FirstName string `json:"first_name" binding:"required,max=150" example:"Вася"`
	LastName  string `json:"last_name" binding:"required,max=150" example:"Пупкин"`
	Password  string `json:"password" binding:"required" example:"Qwerty123"`
}

// SetPasswordRequest is the payload of POST /users/set_password.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required" example:"N3w-passw0rd"`
	CurrentPassword string `json:"current_password" binding:"required" example:"Qwerty123"`
}

//
// Responses
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// UserResponse is a public profile.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientLine is an ingredient of a recipe with its amount.
type IngredientLine struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is a full recipe as seen by the viewer.
type RecipeResponse struct {
	ID               string           `json:"id"`
	Tags             []domain.Tag     `json:"tags"`
	Author           UserResponse     `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
}

// RecipeShort is the compact recipe used by relation and subscription
// responses.
type RecipeShort struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorResponse is a followed author with a preview of their recipes.
type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// ListRecipesResponse wraps a page of recipes.
type ListRecipesResponse struct {
	Results    []RecipeResponse `json:"results"`
	Pagination Pagination       `json:"pagination"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Results    []UserResponse `json:"results"`
	Pagination Pagination     `json:"pagination"`
}

// ListAuthorsResponse wraps a page of the subscription feed.
type ListAuthorsResponse struct {
	Results    []AuthorResponse `json:"results"`
	Pagination Pagination       `json:"pagination"`
}

//
// Mapping
//

func userResponse(u domain.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func recipeResponse(v services.RecipeView) RecipeResponse {
	tags := v.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}
	lines := make([]IngredientLine, len(v.Ingredients))
	for i, ri := range v.Ingredients {
		lines[i] = IngredientLine{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return RecipeResponse{
		ID:               v.ID,
		Tags:             tags,
		Author:           userResponse(v.Author, v.AuthorSubscribed),
		Ingredients:      lines,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            v.Image,
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
}

func recipeShort(r domain.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func authorResponse(a services.AuthorView) AuthorResponse {
	recipes := make([]RecipeShort, len(a.Recipes))
	for i := range a.Recipes {
		recipes[i] = recipeShort(a.Recipes[i])
	}
	return AuthorResponse{
		UserResponse: userResponse(a.User, a.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: a.RecipesCount,
	}
}

func pagination(page, pageSize int, total int64, pages int) Pagination {
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}
