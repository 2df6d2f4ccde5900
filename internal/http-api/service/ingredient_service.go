package service

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"

	"gorm.io/gorm"
)

type IngredientService interface {
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
}

type ingredientService struct {
	repo repository.IngredientRepository
}

func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return ing, nil
}

func (s *ingredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	return s.repo.List(ctx, namePrefix)
}
