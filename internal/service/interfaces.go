package service

import (
	"context"
	"time"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ITokenService validates and, for operators, issues bearer tokens
type ITokenService interface {
	IssueToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.UserResponse, error)
	List(ctx context.Context, viewerID uint, page types.PageRequest) ([]types.UserResponse, int64, error)
	Get(ctx context.Context, viewerID, userID uint) (*types.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetPassword(ctx context.Context, userID uint, current, next string) error
	SetAvatar(ctx context.Context, userID uint, avatar string) (string, error)
	DeleteAvatar(ctx context.Context, userID uint) error
	IsStaff(ctx context.Context, userID uint) (bool, error)
	EnsureAdmin(ctx context.Context, email, username, password string) (bool, error)
}

// ISubscriptionService defines the interface for follower -> author edges
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.AuthorResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	List(ctx context.Context, userID uint, page types.PageRequest, recipesLimit int) ([]types.AuthorResponse, int64, error)
}

type ITagService interface {
	List(ctx context.Context) ([]types.TagResponse, error)
	Get(ctx context.Context, id uint) (*types.TagResponse, error)
}

type IIngredientService interface {
	Search(ctx context.Context, prefix string) ([]types.IngredientResponse, error)
	Get(ctx context.Context, id uint) (*types.IngredientResponse, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, viewerID uint, filter types.RecipeFilter, page types.PageRequest) ([]types.RecipeResponse, int64, error)
	Get(ctx context.Context, viewerID, recipeID uint) (*types.RecipeResponse, error)
	Create(ctx context.Context, authorID uint, req *types.RecipeRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, actorID, recipeID uint, req *types.RecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, actorID, recipeID uint) error
	Exists(ctx context.Context, recipeID uint) (bool, error)
}

// ICollectionService manages favorites and shopping cart membership
type ICollectionService interface {
	Add(ctx context.Context, c Collection, userID, recipeID uint) (*types.RecipeSummary, error)
	Remove(ctx context.Context, c Collection, userID, recipeID uint) error
}

// IShoppingCartService feeds the shopping list export
type IShoppingCartService interface {
	HasItems(ctx context.Context, userID uint) (bool, error)
	CartRows(ctx context.Context, userID uint) ([]shoppinglist.Row, error)
	Export(ctx context.Context, userID uint, now time.Time) (string, error)
}

// IReportService backs the staff-only reporting endpoints
type IReportService interface {
	Users(ctx context.Context, page types.PageRequest) ([]types.UserReport, int64, error)
	Recipes(ctx context.Context, page types.PageRequest) ([]types.RecipeReport, int64, error)
	Ingredients(ctx context.Context, page types.PageRequest) ([]types.IngredientReport, int64, error)
	Tags(ctx context.Context) ([]types.TagReport, error)
}
