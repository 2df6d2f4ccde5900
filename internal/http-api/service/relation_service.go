package service

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"

	"gorm.io/gorm"
)

// RelationKind discriminates the user<->recipe relation tables.
type RelationKind string

const (
	KindFavorite     RelationKind = "favorite"
	KindShoppingCart RelationKind = "shopping_cart"
)

// relationKindInfo carries the per-kind messages and table operations.
// Dispatch goes through this table instead of per-kind service types.
type relationKindInfo struct {
	alreadyMsg string
	missingMsg string
	add        func(ctx context.Context, userID string, recipeID int64) error
	remove     func(ctx context.Context, userID string, recipeID int64) (int64, error)
	exists     func(ctx context.Context, userID string, recipeID int64) (bool, error)
}

// RelationService toggles user<->recipe relations (favorite, cart) and
// user<->author subscriptions with idempotence guarantees: adding an existing
// relation and removing a missing one are both client errors, never silent
// no-ops, and a lost duplicate-insert race surfaces as the same error as the
// synchronous duplicate check.
type RelationService interface {
	AddRecipeRelation(ctx context.Context, userID string, recipeID int64, kind RelationKind) (*models.Recipe, error)
	RemoveRecipeRelation(ctx context.Context, userID string, recipeID int64, kind RelationKind) error
	Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (*UserWithRecipes, error)
	Unsubscribe(ctx context.Context, userID, authorID string) error
}

type relationService struct {
	kinds      map[RelationKind]relationKindInfo
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	subRepo    repository.SubscriptionRepository
}

func NewRelationService(
	relationRepo repository.RelationRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
) RelationService {
	return &relationService{
		kinds: map[RelationKind]relationKindInfo{
			KindFavorite: {
				alreadyMsg: "recipe is already in favorites",
				missingMsg: "recipe was not in favorites",
				add:        relationRepo.AddFavorite,
				remove:     relationRepo.RemoveFavorite,
				exists:     relationRepo.IsFavorited,
			},
			KindShoppingCart: {
				alreadyMsg: "recipe is already in the shopping cart",
				missingMsg: "recipe was not in the shopping cart",
				add:        relationRepo.AddToCart,
				remove:     relationRepo.RemoveFromCart,
				exists:     relationRepo.IsInCart,
			},
		},
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		subRepo:    subRepo,
	}
}

// AddRecipeRelation creates the relation row and returns the target recipe
// for the short response representation.
func (s *relationService) AddRecipeRelation(ctx context.Context, userID string, recipeID int64, kind RelationKind) (*models.Recipe, error) {
	info, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}

	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}

	exists, err := info.exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", info.alreadyMsg, ErrAlreadyExists)
	}

	if err := info.add(ctx, userID, recipeID); err != nil {
		// the unique constraint is the backstop when two identical requests
		// race past the check above; the loser gets the same client error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", info.alreadyMsg, ErrAlreadyExists)
		}
		return nil, err
	}

	return recipe, nil
}

func (s *relationService) RemoveRecipeRelation(ctx context.Context, userID string, recipeID int64, kind RelationKind) error {
	info, ok := s.kinds[kind]
	if !ok {
		return fmt.Errorf("unknown relation kind %q", kind)
	}

	found, err := s.recipeRepo.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
	}

	affected, err := info.remove(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", info.missingMsg, ErrNotFound)
	}
	return nil
}

// Subscribe follows an author and returns the author with their recipes.
// The self-check runs before existence and duplicate checks.
func (s *relationService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (*UserWithRecipes, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", authorID, ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.subRepo.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("already subscribed to this user: %w", ErrAlreadyExists)
	}

	if err := s.subRepo.Create(ctx, userID, authorID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("already subscribed to this user: %w", ErrAlreadyExists)
		}
		return nil, err
	}

	recipes, err := s.recipeRepo.ListByAuthor(ctx, authorID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	return &UserWithRecipes{
		User:         *author,
		IsSubscribed: true,
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}

func (s *relationService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", authorID, ErrNotFound)
		}
		return err
	}

	affected, err := s.subRepo.Delete(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("not subscribed to this user: %w", ErrNotFound)
	}
	return nil
}
