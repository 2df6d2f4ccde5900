package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error)
	BulkInsert(ctx context.Context, ingredients []models.Ingredient) (int64, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// List returns ingredients, optionally filtered by a case-insensitive name
// prefix. The ingredient catalog is unpaginated reference data.
func (r *ingredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var list []models.Ingredient
	db := r.db.WithContext(ctx).Order("name asc")
	if namePrefix != "" {
		db = db.Where("name ILIKE ?", namePrefix+"%")
	}
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return list, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}
	return list, nil
}

// BulkInsert loads reference ingredients, skipping rows that collide with the
// (name, measurement_unit) unique index. Used by cmd/ingredient-import.
func (r *ingredientRepository) BulkInsert(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, 500)
	if result.Error != nil {
		return 0, fmt.Errorf("bulk insert ingredients: %w", result.Error)
	}
	return result.RowsAffected, nil
}
