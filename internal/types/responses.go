package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forkwell/recipe-api/internal/models"
)

// UserResponse is the user shape returned by the API. The password hash
// never leaves the models layer.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// TokenResponse wraps an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AttributeResponse is the tag/ingredient shape returned by the API.
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewTagResponses(tags []models.Tag) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, AttributeResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func NewIngredientResponses(ingredients []models.Ingredient) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, AttributeResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

// RecipeListItem is the compact list shape.
type RecipeListItem struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeDetail extends the list shape with description and image URL.
type RecipeDetail struct {
	RecipeListItem
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func NewRecipeListItem(r *models.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        NewTagResponses(r.Tags),
		Ingredients: NewIngredientResponses(r.Ingredients),
	}
}

func NewRecipeDetail(r *models.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeListItem: NewRecipeListItem(r),
		Description:    r.Description,
		ImageURL:       r.ImageURL,
	}
}
