package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// lookupIDs returns the set of column values in model rows owned by userID
// whose column is one of ids. A zero userID (anonymous) yields an empty set.
func lookupIDs(ctx context.Context, db *gorm.DB, model interface{}, column string, userID uint, ids []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if userID == 0 || len(ids) == 0 {
		return set, nil
	}

	var found []uint
	err := db.WithContext(ctx).Model(model).
		Where("user_id = ? AND "+column+" IN ?", userID, ids).
		Pluck(column, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func subscribedTo(ctx context.Context, db *gorm.DB, userID uint, authorIDs []uint) (map[uint]bool, error) {
	return lookupIDs(ctx, db, &models.Subscription{}, "author_id", userID, authorIDs)
}

func recipeMembership(ctx context.Context, db *gorm.DB, userID uint, recipes []models.Recipe) (membership, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var m membership
	var err error
	if m.favorited, err = lookupIDs(ctx, db, &models.Favorite{}, "recipe_id", userID, recipeIDs); err != nil {
		return m, err
	}
	if m.inCart, err = lookupIDs(ctx, db, &models.ShoppingCart{}, "recipe_id", userID, recipeIDs); err != nil {
		return m, err
	}
	if m.subscribed, err = subscribedTo(ctx, db, userID, authorIDs); err != nil {
		return m, err
	}
	return m, nil
}
