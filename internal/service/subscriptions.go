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

// NoRecipesLimit asks for every recipe of each author
const NoRecipesLimit = -1

// SubscriptionService manages who follows whom
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID. The insert relies on the unique
// index, so concurrent duplicates resolve to a single row.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.AuthorResponse, error) {
	author, err := s.findAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, newClientError(ErrSelfSubscription, "you cannot subscribe to yourself")
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Subscription{UserID: userID, AuthorID: authorID})
	if res.Error != nil {
		if database.IsCheckViolation(res.Error) {
			return nil, newClientError(ErrSelfSubscription, "you cannot subscribe to yourself")
		}
		if database.IsForeignKeyViolation(res.Error) {
			return nil, newClientError(ErrNotFound, "author or user not found")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, newClientError(ErrAlreadyExists, "you are already subscribed to this author")
	}

	authors, err := s.withRecipes(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &authors[0], nil
}

// Unsubscribe removes the edge; a missing edge is a client error
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.findAuthor(ctx, authorID); err != nil {
		return err
	}
	if userID == authorID {
		return newClientError(ErrSelfSubscription, "you cannot subscribe to yourself")
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return newClientError(ErrNotInCollection, "you are not subscribed to this author")
	}
	return nil
}

// List returns the authors userID follows, each with up to recipesLimit
// recipes (all of them when recipesLimit is NoRecipesLimit)
func (s *SubscriptionService) List(ctx context.Context, userID uint, page types.PageRequest, recipesLimit int) ([]types.AuthorResponse, int64, error) {
	followed := s.db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Order("email").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	results, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (s *SubscriptionService) withRecipes(ctx context.Context, authors []models.User, recipesLimit int) ([]types.AuthorResponse, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	counts := make(map[uint]int64, len(ids))
	if len(ids) > 0 {
		var rows []struct {
			AuthorID uint
			Total    int64
		}
		err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Select("author_id, COUNT(*) AS total").
			Where("author_id IN ?", ids).
			Group("author_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.AuthorID] = r.Total
		}
	}

	results := make([]types.AuthorResponse, 0, len(authors))
	for i := range authors {
		var recipes []models.Recipe
		if recipesLimit != 0 {
			q := s.db.WithContext(ctx).Where("author_id = ?", authors[i].ID).Order("pub_date DESC, id DESC")
			if recipesLimit > 0 {
				q = q.Limit(recipesLimit)
			}
			if err := q.Find(&recipes).Error; err != nil {
				return nil, err
			}
		}

		summaries := make([]types.RecipeSummary, 0, len(recipes))
		for j := range recipes {
			summaries = append(summaries, toRecipeSummary(&recipes[j]))
		}
		results = append(results, types.AuthorResponse{
			UserResponse: toUserResponse(&authors[i], true),
			Recipes:      summaries,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return results, nil
}

func (s *SubscriptionService) findAuthor(ctx context.Context, authorID uint) (*models.User, error) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "author not found")
		}
		return nil, err
	}
	return &author, nil
}
