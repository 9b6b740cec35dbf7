package types

import "github.com/shopspring/decimal"

// CreateUserRequest is the signup payload.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// TokenRequest is the credential payload for token issuance.
type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the partial self-profile update. Nil pointers mean
// the field was absent from the payload and stays untouched.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Name     *string `json:"name" binding:"omitempty"`
}

// AttributeInput names a tag or ingredient inside a recipe payload.
type AttributeInput struct {
	Name string `json:"name" binding:"required"`
}

// AttributeRequest creates or renames a tag/ingredient directly.
type AttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest is the full recipe creation payload. Tags and
// Ingredients are resolved by name against the caller's own rows.
// TimeMinutes is a pointer so a present-but-zero value passes `required`.
type CreateRecipeRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	TimeMinutes *int             `json:"time_minutes" binding:"required,min=0"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Link        string           `json:"link" binding:"omitempty,url"`
	Tags        []AttributeInput `json:"tags" binding:"omitempty,dive"`
	Ingredients []AttributeInput `json:"ingredients" binding:"omitempty,dive"`
}

// UpdateRecipeRequest is the partial update payload. A nil attribute slice
// means the field was absent and memberships stay untouched; a non-nil
// (possibly empty) slice replaces the membership set wholesale.
type UpdateRecipeRequest struct {
	Title       *string           `json:"title" binding:"omitempty"`
	Description *string           `json:"description"`
	TimeMinutes *int              `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *decimal.Decimal  `json:"price"`
	Link        *string           `json:"link" binding:"omitempty,url"`
	Tags        *[]AttributeInput `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" binding:"omitempty,dive"`
}
