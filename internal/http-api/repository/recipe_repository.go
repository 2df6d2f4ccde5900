package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows recipe listings. FavoritedBy / InCartOf hold the
// requesting user's id when the corresponding query flag is set.
type RecipeFilter struct {
	AuthorID    string
	FavoritedBy string
	InCartOf    string
}

type RecipeRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter RecipeFilter, page, pageSize int) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	CreateWithIngredients(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient) error
	UpdateWithIngredients(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient) error
	Delete(ctx context.Context, id int64) error
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("RecipeIngredients.Ingredient").
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, page, pageSize int) ([]models.Recipe, int64, error) {
	var list []models.Recipe
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != "" {
		query = query.
			Joins("JOIN favorite_recipes ON favorite_recipes.recipe_id = recipes.id").
			Where("favorite_recipes.user_id = ?", filter.FavoritedBy)
	}
	if filter.InCartOf != "" {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", filter.InCartOf)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Author").
		Preload("RecipeIngredients.Ingredient").
		Order("recipes.created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Recipe, error) {
	var list []models.Recipe
	db := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recipes by author: %w", err)
	}
	return list, nil
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateWithIngredients inserts the recipe and all of its ingredient lines as
// one transaction. A reader never sees a recipe without its lines.
func (r *recipeRepository) CreateWithIngredients(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin create recipe: %w", tx.Error)
	}

	if err := tx.Create(recipe).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create recipe: %w", err)
	}
	for i := range lines {
		lines[i].RecipeID = recipe.ID
	}
	if err := tx.Create(&lines).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create recipe ingredients: %w", err)
	}

	return tx.Commit().Error
}

// UpdateWithIngredients saves scalar fields and, when lines is non-nil,
// replaces the whole ingredient set (delete-all, reinsert) in the same
// transaction.
func (r *recipeRepository) UpdateWithIngredients(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin update recipe: %w", tx.Error)
	}

	if err := tx.Model(&models.Recipe{ID: recipe.ID}).
		Select("name", "text", "image_url", "cooking_time").
		Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image_url":    recipe.ImageURL,
			"cooking_time": recipe.CookingTime,
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("update recipe: %w", err)
	}

	if lines != nil {
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("clear recipe ingredients: %w", err)
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("replace recipe ingredients: %w", err)
		}
	}

	return tx.Commit().Error
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	// relation rows and ingredient lines cascade with the recipe
	if err := r.db.WithContext(ctx).Select("RecipeIngredients").
		Delete(&models.Recipe{ID: id}).Error; err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
