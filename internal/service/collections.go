package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Collection names a per-user set of recipes
type Collection string

const (
	Favorites    Collection = "favorites"
	ShoppingCart Collection = "shopping cart"
)

func (c Collection) member(userID, recipeID uint) interface{} {
	if c == Favorites {
		return &models.Favorite{UserID: userID, RecipeID: recipeID}
	}
	return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
}

func (c Collection) model() interface{} {
	if c == Favorites {
		return &models.Favorite{}
	}
	return &models.ShoppingCart{}
}

// CollectionService adds and removes recipes from favorites and the cart
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// Add puts recipeID into the user's collection. Membership is unique per
// (user, recipe); the insert is a no-op when the row exists.
func (s *CollectionService) Add(ctx context.Context, c Collection, userID, recipeID uint) (*types.RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "recipe not found")
		}
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c.member(userID, recipeID))
	if res.Error != nil {
		// the recipe was deleted after the lookup, or the user no longer exists
		if database.IsForeignKeyViolation(res.Error) {
			return nil, newClientError(ErrNotFound, "recipe or user not found")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, newClientError(ErrAlreadyExists, "recipe is already in your %s", c)
	}

	summary := toRecipeSummary(&recipe)
	return &summary, nil
}

// Remove takes recipeID out of the user's collection
func (s *CollectionService) Remove(ctx context.Context, c Collection, userID, recipeID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newClientError(ErrNotFound, "recipe not found")
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(c.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return newClientError(ErrNotInCollection, "recipe is not in your %s", c)
	}
	return nil
}
