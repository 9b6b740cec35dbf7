package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkwell/recipe-api/internal/models"
	"github.com/forkwell/recipe-api/internal/types"
)

// RecipeFilter narrows a recipe listing. Empty slices mean no restriction
// for that attribute kind.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

type RecipeService struct {
	db *gorm.DB
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListRecipes returns the caller's recipes, optionally restricted to those
// holding at least one of the given tag/ingredient ids. Matching multiple
// filter values yields the recipe once; ordering is newest-first by id.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)

	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
	}

	var recipes []models.Recipe
	err := query.
		Distinct("recipes.*").
		Order("recipes.id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe loads one of the caller's recipes with its attribute sets.
// A recipe owned by someone else is indistinguishable from a missing one.
func (s *RecipeService) GetRecipe(ctx context.Context, userID uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe inserts the recipe row and then resolves any nested
// tag/ingredient names via get-or-create, all inside one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: *req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, userID, req.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		ingredients, err := resolveIngredients(tx, userID, req.Ingredients)
		if err != nil {
			return err
		}
		if len(ingredients) > 0 {
			if err := tx.Model(&recipe).Association("Ingredients").Append(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, userID, recipe.ID)
}

// UpdateRecipe applies a partial update. When an attribute field is present
// in the payload the membership set is replaced wholesale; when absent it
// stays untouched. The whole update is transactional so a failure never
// leaves a half-replaced attribute set.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID uuid.UUID, id uint, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.Title != nil {
			recipe.Title = *req.Title
		}
		if req.Description != nil {
			recipe.Description = *req.Description
		}
		if req.TimeMinutes != nil {
			recipe.TimeMinutes = *req.TimeMinutes
		}
		if req.Price != nil {
			recipe.Price = *req.Price
		}
		if req.Link != nil {
			recipe.Link = *req.Link
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if req.Tags != nil {
			tags, err := resolveTags(tx, userID, *req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			ingredients, err := resolveIngredients(tx, userID, *req.Ingredients)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Ingredients").Replace(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, userID, id)
}

// ReplaceRecipe is the PUT variant: every scalar is overwritten and both
// attribute sets are replaced, even when the payload names none.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, userID uuid.UUID, id uint, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	tags := req.Tags
	ingredients := req.Ingredients
	if tags == nil {
		tags = []types.AttributeInput{}
	}
	if ingredients == nil {
		ingredients = []types.AttributeInput{}
	}
	update := types.UpdateRecipeRequest{
		Title:       &req.Title,
		Description: &req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       &req.Price,
		Link:        &req.Link,
		Tags:        &tags,
		Ingredients: &ingredients,
	}
	return s.UpdateRecipe(ctx, userID, id, &update)
}

// DeleteRecipe removes one of the caller's recipes and its join rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// SetImageURL records the stored image location on one of the caller's recipes.
func (s *RecipeService) SetImageURL(ctx context.Context, userID uuid.UUID, id uint, url string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	recipe.ImageURL = url
	if err := s.db.WithContext(ctx).Model(recipe).Update("image_url", url).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// resolveTags maps attribute names onto existing or freshly created rows
// scoped to the owning user. Matching is by name within the caller's own
// namespace only, never across users.
func resolveTags(tx *gorm.DB, userID uuid.UUID, inputs []types.AttributeInput) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(inputs))
	for _, in := range inputs {
		var tag models.Tag
		err := getOrCreate(tx, &tag,
			map[string]interface{}{"user_id": userID, "name": in.Name},
			&models.Tag{UserID: userID, Name: in.Name})
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func resolveIngredients(tx *gorm.DB, userID uuid.UUID, inputs []types.AttributeInput) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	for _, in := range inputs {
		var ingredient models.Ingredient
		err := getOrCreate(tx, &ingredient,
			map[string]interface{}{"user_id": userID, "name": in.Name},
			&models.Ingredient{UserID: userID, Name: in.Name})
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// getOrCreate looks up dest by cond and inserts value when absent. The
// insert carries ON CONFLICT DO NOTHING so losing a concurrent (user, name)
// race never aborts the surrounding transaction; the unconditional re-select
// then returns whichever row survived, so at most one row per key ever exists.
func getOrCreate(tx *gorm.DB, dest interface{}, cond map[string]interface{}, value interface{}) error {
	err := tx.Where(cond).First(dest).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error; err != nil {
		return err
	}
	return tx.Where(cond).First(dest).Error
}
