package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
)

// ShoppingCartService reads a user's cart as shopping list rows
type ShoppingCartService struct {
	db *gorm.DB
}

func NewShoppingCartService(db *gorm.DB) *ShoppingCartService {
	return &ShoppingCartService{db: db}
}

func (s *ShoppingCartService) HasItems(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// CartRows joins the user's cart through recipes to their ingredient
// amounts, in cart insertion order
func (s *ShoppingCartService) CartRows(ctx context.Context, userID uint) ([]shoppinglist.Row, error) {
	rows := make([]shoppinglist.Row, 0)
	err := s.db.WithContext(ctx).Table("shopping_carts").
		Select("recipes.name AS recipe_name, " +
			"ingredients.name AS ingredient_name, " +
			"ingredients.measurement_unit AS measurement_unit, " +
			"amount_ingredients.amount AS amount").
		Joins("JOIN recipes ON recipes.id = shopping_carts.recipe_id").
		Joins("JOIN amount_ingredients ON amount_ingredients.recipe_id = recipes.id").
		Joins("JOIN ingredients ON ingredients.id = amount_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.id, amount_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Export renders the user's shopping list. An empty cart is a client error.
func (s *ShoppingCartService) Export(ctx context.Context, userID uint, now time.Time) (string, error) {
	ok, err := s.HasItems(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrEmptyCart
	}

	rows, err := s.CartRows(ctx, userID)
	if err != nil {
		return "", err
	}
	return shoppinglist.Render(rows, now), nil
}
