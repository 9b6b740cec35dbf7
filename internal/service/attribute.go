package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkwell/recipe-api/internal/models"
)

// TagService manages the user-scoped tag namespace.
type TagService struct {
	db *gorm.DB
}

var _ IAttributeService = (*TagService)(nil)

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns the caller's tags ordered by name descending. With
// assignedOnly set, tags without any recipe membership are excluded; a tag
// attached to several recipes still appears once.
func (s *TagService) List(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]models.AttributeRow, error) {
	query := s.db.WithContext(ctx).Model(&models.Tag{}).Where("tags.user_id = ?", userID)
	if assignedOnly {
		query = query.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id")
	}

	var tags []models.Tag
	err := query.Distinct("tags.*").Order("tags.name DESC").Find(&tags).Error
	if err != nil {
		return nil, err
	}

	rows := make([]models.AttributeRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, models.AttributeRow{ID: t.ID, Name: t.Name})
	}
	return rows, nil
}

// Create inserts a tag, collapsing onto an existing (user, name) row.
func (s *TagService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.AttributeRow, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return getOrCreate(tx, &tag,
			map[string]interface{}{"user_id": userID, "name": name},
			&models.Tag{UserID: userID, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return &models.AttributeRow{ID: tag.ID, Name: tag.Name}, nil
}

// Update renames one of the caller's tags.
func (s *TagService) Update(ctx context.Context, userID uuid.UUID, id uint, name string) (*models.AttributeRow, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tag.Name = name
	if err := s.db.WithContext(ctx).Save(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &models.AttributeRow{ID: tag.ID, Name: tag.Name}, nil
}

// Delete removes one of the caller's tags along with its recipe memberships.
func (s *TagService) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// IngredientService mirrors TagService for the ingredient namespace.
type IngredientService struct {
	db *gorm.DB
}

var _ IAttributeService = (*IngredientService)(nil)

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) List(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]models.AttributeRow, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("ingredients.user_id = ?", userID)
	if assignedOnly {
		query = query.Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id")
	}

	var ingredients []models.Ingredient
	err := query.Distinct("ingredients.*").Order("ingredients.name DESC").Find(&ingredients).Error
	if err != nil {
		return nil, err
	}

	rows := make([]models.AttributeRow, 0, len(ingredients))
	for _, i := range ingredients {
		rows = append(rows, models.AttributeRow{ID: i.ID, Name: i.Name})
	}
	return rows, nil
}

func (s *IngredientService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.AttributeRow, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return getOrCreate(tx, &ingredient,
			map[string]interface{}{"user_id": userID, "name": name},
			&models.Ingredient{UserID: userID, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return &models.AttributeRow{ID: ingredient.ID, Name: ingredient.Name}, nil
}

func (s *IngredientService) Update(ctx context.Context, userID uuid.UUID, id uint, name string) (*models.AttributeRow, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ingredient.Name = name
	if err := s.db.WithContext(ctx).Save(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &models.AttributeRow{ID: ingredient.ID, Name: ingredient.Name}, nil
}

func (s *IngredientService) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ingredient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
}
