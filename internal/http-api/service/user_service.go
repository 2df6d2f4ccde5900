package service

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/storage"

	"gorm.io/gorm"
)

// UserProfile is a user with the viewer-dependent subscription flag.
type UserProfile struct {
	User         models.User
	IsSubscribed bool
}

// UserWithRecipes extends the profile with the author's recipes, as returned
// by subscribe and the subscriptions listing.
type UserWithRecipes struct {
	User         models.User
	IsSubscribed bool
	Recipes      []models.Recipe
	RecipesCount int64
}

type UserService interface {
	GetProfile(ctx context.Context, viewerID, userID string) (*UserProfile, error)
	List(ctx context.Context, viewerID string, page, pageSize int) ([]UserProfile, int64, error)
	SetAvatar(ctx context.Context, userID, avatarData string) (string, error)
	DeleteAvatar(ctx context.Context, userID string) error
	Subscriptions(ctx context.Context, userID string, recipesLimit, page, pageSize int) ([]UserWithRecipes, int64, error)
}

type userService struct {
	userRepo   repository.UserRepository
	subRepo    repository.SubscriptionRepository
	recipeRepo repository.RecipeRepository
	media      storage.MediaStore
}

func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	recipeRepo repository.RecipeRepository,
	media storage.MediaStore,
) UserService {
	return &userService{
		userRepo:   userRepo,
		subRepo:    subRepo,
		recipeRepo: recipeRepo,
		media:      media,
	}
}

func (s *userService) GetProfile(ctx context.Context, viewerID, userID string) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	profile := &UserProfile{User: *user}
	if viewerID != "" && viewerID != userID {
		if profile.IsSubscribed, err = s.subRepo.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *userService) List(ctx context.Context, viewerID string, page, pageSize int) ([]UserProfile, int64, error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	authorIDs := make([]string, 0, len(users))
	for _, u := range users {
		authorIDs = append(authorIDs, u.ID)
	}
	subscribed, err := s.subRepo.SubscribedSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, UserProfile{User: u, IsSubscribed: subscribed[u.ID]})
	}
	return profiles, total, nil
}

// SetAvatar decodes the base64 payload, stores it, and replaces any previous
// avatar file.
func (s *userService) SetAvatar(ctx context.Context, userID, avatarData string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	data, ext, err := storage.DecodeBase64Image(avatarData)
	if err != nil {
		return "", err
	}
	url, err := s.media.Save(ctx, data, ext, "avatars")
	if err != nil {
		return "", err
	}

	if user.AvatarURL != nil {
		// best effort; a stale file is not worth failing the upload
		_ = s.media.Remove(ctx, *user.AvatarURL)
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, &url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.AvatarURL == nil {
		return fmt.Errorf("avatar not set: %w", ErrNotFound)
	}

	if err := s.media.Remove(ctx, *user.AvatarURL); err != nil {
		return err
	}
	return s.userRepo.UpdateAvatar(ctx, userID, nil)
}

// Subscriptions lists the authors the user follows, each with up to
// recipesLimit of their recipes.
func (s *userService) Subscriptions(ctx context.Context, userID string, recipesLimit, page, pageSize int) ([]UserWithRecipes, int64, error) {
	authors, total, err := s.subRepo.ListAuthors(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]UserWithRecipes, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		count, err := s.recipeRepo.CountByAuthor(ctx, author.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, UserWithRecipes{
			User:         author,
			IsSubscribed: true,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}
	return result, total, nil
}
