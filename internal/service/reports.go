package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ReportService computes the aggregate counts shown to staff
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) Users(ctx context.Context, page types.PageRequest) ([]types.UserReport, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]types.UserReport, 0)
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id, users.email, users.username, users.first_name, users.last_name, users.is_staff, " +
			"(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipes_count, " +
			"(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.author_id = users.id) AS subscribers_count, " +
			"(SELECT COUNT(*) FROM favorites WHERE favorites.user_id = users.id) AS favorites_count").
		Order("users.email").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportService) Recipes(ctx context.Context, page types.PageRequest) ([]types.RecipeReport, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]types.RecipeReport, 0)
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("recipes.id, recipes.name, users.username AS author_username, " +
			"(SELECT COUNT(*) FROM favorites WHERE favorites.recipe_id = recipes.id) AS favorites_count").
		Joins("JOIN users ON users.id = recipes.author_id").
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportService) Ingredients(ctx context.Context, page types.PageRequest) ([]types.IngredientReport, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]types.IngredientReport, 0)
	err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Select("ingredients.id, ingredients.name, ingredients.measurement_unit, " +
			"(SELECT COUNT(*) FROM amount_ingredients WHERE amount_ingredients.ingredient_id = ingredients.id) AS recipes_count").
		Order("ingredients.name").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportService) Tags(ctx context.Context) ([]types.TagReport, error) {
	reports := make([]types.TagReport, 0)
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.slug, " +
			"(SELECT COUNT(*) FROM recipe_tags WHERE recipe_tags.tag_id = tags.id) AS recipes_count").
		Order("tags.name").
		Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
