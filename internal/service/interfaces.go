package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/forkwell/recipe-api/internal/models"
	"github.com/forkwell/recipe-api/internal/types"
)

// IAuthService defines account and token operations.
type IAuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	CreateSuperuser(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *types.UpdateUserRequest) (*models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines owner-scoped recipe operations.
type IRecipeService interface {
	ListRecipes(ctx context.Context, userID uuid.UUID, filter RecipeFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, userID uuid.UUID, id uint) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID uuid.UUID, id uint, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	ReplaceRecipe(ctx context.Context, userID uuid.UUID, id uint, req *types.CreateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID uuid.UUID, id uint) error
	SetImageURL(ctx context.Context, userID uuid.UUID, id uint, url string) (*models.Recipe, error)
}

// IAttributeService is implemented per attribute kind (tags, ingredients).
type IAttributeService interface {
	List(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]models.AttributeRow, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (*models.AttributeRow, error)
	Update(ctx context.Context, userID uuid.UUID, id uint, name string) (*models.AttributeRow, error)
	Delete(ctx context.Context, userID uuid.UUID, id uint) error
}

// IImageService stores uploaded recipe images.
type IImageService interface {
	UploadRecipeImage(ctx context.Context, data []byte) (string, error)
}
