package handler_test

import (
	"context"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) GetByID(ctx context.Context, viewerID string, id int64) (*service.RecipeDetail, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID string, filter repository.RecipeFilter, page, pageSize int) ([]service.RecipeDetail, int64, error) {
	args := m.Called(ctx, viewerID, filter, page, pageSize)
	return args.Get(0).([]service.RecipeDetail), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Create(ctx context.Context, authorID string, in service.RecipeInput) (*service.RecipeDetail, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, recipeID int64, actorID string, in service.RecipeUpdate) (*service.RecipeDetail, error) {
	args := m.Called(ctx, recipeID, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, recipeID int64, actorID string) error {
	args := m.Called(ctx, recipeID, actorID)
	return args.Error(0)
}

type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) AddRecipeRelation(ctx context.Context, userID string, recipeID int64, kind service.RelationKind) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRelationService) RemoveRecipeRelation(ctx context.Context, userID string, recipeID int64, kind service.RelationKind) error {
	args := m.Called(ctx, userID, recipeID, kind)
	return args.Error(0)
}

func (m *MockRelationService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (*service.UserWithRecipes, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserWithRecipes), args.Error(1)
}

func (m *MockRelationService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID string) ([]service.AggregatedLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AggregatedLine), args.Error(1)
}

func (m *MockShoppingListService) BuildExport(ctx context.Context, user *models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, viewerID, userID string) (*service.UserProfile, error) {
	args := m.Called(ctx, viewerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserProfile), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, viewerID string, page, pageSize int) ([]service.UserProfile, int64, error) {
	args := m.Called(ctx, viewerID, page, pageSize)
	return args.Get(0).([]service.UserProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) SetAvatar(ctx context.Context, userID, avatarData string) (string, error) {
	args := m.Called(ctx, userID, avatarData)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) DeleteAvatar(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) Subscriptions(ctx context.Context, userID string, recipesLimit, page, pageSize int) ([]service.UserWithRecipes, int64, error) {
	args := m.Called(ctx, userID, recipesLimit, page, pageSize)
	return args.Get(0).([]service.UserWithRecipes), args.Get(1).(int64), args.Error(2)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, email, password)
	var user *models.User
	if args.Get(2) != nil {
		user = args.Get(2).(*models.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, namePrefix)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

type MockShortLinker struct {
	mock.Mock
}

func (m *MockShortLinker) Code(ctx context.Context, recipeID int64) (string, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Error(1)
}

func (m *MockShortLinker) Resolve(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

// --- SETUP ---

// stubAuth stands in for the JWT middleware and injects a fixed user.
func stubAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
			c.Set("username", "testuser")
		}
		c.Next()
	}
}
