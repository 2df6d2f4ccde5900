package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/storage"

	"gorm.io/gorm"
)

// IngredientAmount is one submitted ingredient line.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// RecipeInput carries a full recipe submission. Image is a base64 data URL.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
}

// RecipeUpdate carries an update. Nil scalar fields stay untouched on a
// partial update; Full marks complete-resource semantics, where the
// ingredient list must be resubmitted.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Ingredients []IngredientAmount
	Full        bool
}

// RecipeDetail is a recipe with the viewer-dependent flags resolved.
type RecipeDetail struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

type RecipeService interface {
	GetByID(ctx context.Context, viewerID string, id int64) (*RecipeDetail, error)
	List(ctx context.Context, viewerID string, filter repository.RecipeFilter, page, pageSize int) ([]RecipeDetail, int64, error)
	Create(ctx context.Context, authorID string, in RecipeInput) (*RecipeDetail, error)
	Update(ctx context.Context, recipeID int64, actorID string, in RecipeUpdate) (*RecipeDetail, error)
	Delete(ctx context.Context, recipeID int64, actorID string) error
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	relationRepo   repository.RelationRepository
	subRepo        repository.SubscriptionRepository
	media          storage.MediaStore
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	relationRepo repository.RelationRepository,
	subRepo repository.SubscriptionRepository,
	media storage.MediaStore,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		relationRepo:   relationRepo,
		subRepo:        subRepo,
		media:          media,
	}
}

func (s *recipeService) GetByID(ctx context.Context, viewerID string, id int64) (*RecipeDetail, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s.withFlags(ctx, viewerID, recipe)
}

func (s *recipeService) List(ctx context.Context, viewerID string, filter repository.RecipeFilter, page, pageSize int) ([]RecipeDetail, int64, error) {
	recipes, total, err := s.recipeRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.relationRepo.FavoritedSet(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, 0, err
	}
	inCart, err := s.relationRepo.InCartSet(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, 0, err
	}
	subscribed, err := s.subRepo.SubscribedSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, 0, err
	}

	details := make([]RecipeDetail, 0, len(recipes))
	for _, r := range recipes {
		details = append(details, RecipeDetail{
			Recipe:           r,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: subscribed[r.AuthorID],
		})
	}
	return details, total, nil
}

// Create validates the submission, stores the image, and persists the recipe
// with all of its ingredient lines atomically.
func (s *recipeService) Create(ctx context.Context, authorID string, in RecipeInput) (*RecipeDetail, error) {
	lines, err := s.validateIngredients(ctx, in.Ingredients)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(in.Name),
		Text:        in.Text,
		ImageURL:    imageURL,
		CookingTime: in.CookingTime,
	}
	if err := s.recipeRepo.CreateWithIngredients(ctx, recipe, lines); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, authorID, recipe.ID)
}

// Update applies scalar changes and, when ingredient lines are present,
// replaces the whole set in the same transaction. Only the author may write.
func (s *recipeService) Update(ctx context.Context, recipeID int64, actorID string, in RecipeUpdate) (*RecipeDetail, error) {
	existing, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}
	if existing.AuthorID != actorID {
		return nil, ErrForbidden
	}

	if in.Full && in.Ingredients == nil {
		return nil, ErrIngredientsRequired
	}

	var lines []models.RecipeIngredient
	if in.Ingredients != nil {
		lines, err = s.validateIngredients(ctx, in.Ingredients)
		if err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		existing.Name = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		existing.Text = *in.Text
	}
	if in.CookingTime != nil {
		existing.CookingTime = *in.CookingTime
	}
	if in.Image != nil && *in.Image != "" {
		imageURL, err := s.storeImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		existing.ImageURL = imageURL
	}

	if err := s.recipeRepo.UpdateWithIngredients(ctx, existing, lines); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, actorID, recipeID)
}

func (s *recipeService) Delete(ctx context.Context, recipeID int64, actorID string) error {
	existing, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
		}
		return err
	}
	if existing.AuthorID != actorID {
		return ErrForbidden
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

// validateIngredients enforces the write-pipeline rules in order: non-empty
// list, no duplicate ingredient ids, every id known to the store.
func (s *recipeService) validateIngredients(ctx context.Context, items []IngredientAmount) ([]models.RecipeIngredient, error) {
	if len(items) == 0 {
		return nil, ErrEmptyIngredients
	}

	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if seen[item.IngredientID] {
			return nil, fmt.Errorf("ingredient %d listed twice: %w", item.IngredientID, ErrDuplicateIngredient)
		}
		seen[item.IngredientID] = true
		ids = append(ids, item.IngredientID)
	}

	known, err := s.ingredientRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(known) != len(ids) {
		knownSet := make(map[int64]bool, len(known))
		for _, ing := range known {
			knownSet[ing.ID] = true
		}
		var missing []int64
		for _, id := range ids {
			if !knownSet[id] {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, fmt.Errorf("ingredient ids %v: %w", missing, ErrUnknownIngredient)
	}

	lines := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.RecipeIngredient{
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return lines, nil
}

func (s *recipeService) storeImage(ctx context.Context, dataURL string) (string, error) {
	data, ext, err := storage.DecodeBase64Image(dataURL)
	if err != nil {
		return "", err
	}
	return s.media.Save(ctx, data, ext, "recipes/images")
}

func (s *recipeService) withFlags(ctx context.Context, viewerID string, recipe *models.Recipe) (*RecipeDetail, error) {
	detail := &RecipeDetail{Recipe: *recipe}
	if viewerID == "" {
		return detail, nil
	}

	var err error
	if detail.IsFavorited, err = s.relationRepo.IsFavorited(ctx, viewerID, recipe.ID); err != nil {
		return nil, err
	}
	if detail.IsInShoppingCart, err = s.relationRepo.IsInCart(ctx, viewerID, recipe.ID); err != nil {
		return nil, err
	}
	if detail.AuthorSubscribed, err = s.subRepo.Exists(ctx, viewerID, recipe.AuthorID); err != nil {
		return nil, err
	}
	return detail, nil
}
