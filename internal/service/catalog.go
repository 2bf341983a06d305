package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// TagService is read-only; tags come from the importer
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List(ctx context.Context) ([]types.TagResponse, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	results := make([]types.TagResponse, 0, len(tags))
	for i := range tags {
		results = append(results, toTagResponse(&tags[i]))
	}
	return results, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*types.TagResponse, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "tag not found")
		}
		return nil, err
	}
	resp := toTagResponse(&tag)
	return &resp, nil
}

// IngredientService is read-only; ingredients come from the importer
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// Search lists ingredients whose name starts with prefix, ignoring case.
// An empty prefix lists everything.
func (s *IngredientService) Search(ctx context.Context, prefix string) ([]types.IngredientResponse, error) {
	q := s.db.WithContext(ctx).Order("name")
	if prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	results := make([]types.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		results = append(results, toIngredientResponse(&ingredients[i]))
	}
	return results, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*types.IngredientResponse, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "ingredient not found")
		}
		return nil, err
	}
	resp := toIngredientResponse(&ingredient)
	return &resp, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
