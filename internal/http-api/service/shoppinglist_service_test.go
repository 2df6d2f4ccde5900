package service

import (
	"context"
	"testing"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestShoppingListService_Aggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("SumsAndSorts", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		// flour appears in two recipes; amounts must merge into one line
		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{
			{Name: "sugar", MeasurementUnit: "g", Amount: 50},
			{Name: "flour", MeasurementUnit: "g", Amount: 200},
			{Name: "flour", MeasurementUnit: "g", Amount: 300},
		}, nil).Once()

		got, err := svc.Aggregate(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, []AggregatedLine{
			{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
			{Name: "sugar", MeasurementUnit: "g", TotalAmount: 50},
		}, got)
	})

	t.Run("UnitIsPartOfIdentity", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		// same name, different unit: two separate lines, never summed
		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{
			{Name: "milk", MeasurementUnit: "ml", Amount: 200},
			{Name: "milk", MeasurementUnit: "tbsp", Amount: 2},
		}, nil).Once()

		got, err := svc.Aggregate(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, []AggregatedLine{
			{Name: "milk", MeasurementUnit: "ml", TotalAmount: 200},
			{Name: "milk", MeasurementUnit: "tbsp", TotalAmount: 2},
		}, got)
	})

	t.Run("CaseSensitiveIdentity", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{
			{Name: "Salt", MeasurementUnit: "g", Amount: 5},
			{Name: "salt", MeasurementUnit: "g", Amount: 10},
		}, nil).Once()

		got, err := svc.Aggregate(ctx, "user-1")

		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{}, nil).Once()

		_, err := svc.Aggregate(ctx, "user-1")

		assert.ErrorIs(t, err, ErrEmptyCart)
	})
}

func TestShoppingListService_BuildExport(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "user-1", Username: "home_cook", FirstName: "Anna", LastName: "Petrova"}

	t.Run("RendersDocument", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{
			{Name: "flour", MeasurementUnit: "g", Amount: 200},
			{Name: "egg", MeasurementUnit: "pcs", Amount: 3},
			{Name: "flour", MeasurementUnit: "g", Amount: 100},
		}, nil).Once()
		relRepo.On("CartRecipes", mock.Anything, "user-1").Return([]models.Recipe{
			{
				ID:   1,
				Name: "Pancakes",
				Author: &models.User{
					Username:  "chef",
					FirstName: "Ivan",
					LastName:  "Ivanov",
				},
			},
		}, nil).Once()

		export, err := svc.BuildExport(ctx, user)

		assert.NoError(t, err)
		assert.Contains(t, export, "Foodgram - Shopping List")
		assert.Contains(t, export, "User: home_cook")
		// sorted, summed, numbered, display-cased
		assert.Contains(t, export, "1. Egg - 3 pcs")
		assert.Contains(t, export, "2. Flour - 300 g")
		assert.Contains(t, export, "- Pancakes (author: Ivan Ivanov)")
		assert.Contains(t, export, "Foodgram - Your culinary assistant")
	})

	t.Run("EmptyCart", func(t *testing.T) {
		relRepo := new(MockRelationRepo)
		svc := NewShoppingListService(relRepo)

		relRepo.On("CartLines", mock.Anything, "user-1").Return([]repository.CartLine{}, nil).Once()

		_, err := svc.BuildExport(ctx, user)

		assert.ErrorIs(t, err, ErrEmptyCart)
		relRepo.AssertNotCalled(t, "CartRecipes", mock.Anything, mock.Anything)
	})
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Flour", titleCase("flour"))
	assert.Equal(t, "Мука", titleCase("мука"))
	assert.Equal(t, "", titleCase(""))
	// only the first rune changes; the rest stays as stored
	assert.Equal(t, "Olive oil", titleCase("olive oil"))
}
