package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, log *zap.Logger) *RecipeService {
	return &RecipeService{db: db, log: log, now: time.Now}
}

// List returns a page of recipes, newest first. The favorite and cart
// filters only apply to an authenticated viewer.
func (s *RecipeService) List(ctx context.Context, viewerID uint, filter types.RecipeFilter, page types.PageRequest) ([]types.RecipeResponse, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if viewerID != 0 && filter.IsFavorited {
		q = q.Where("recipes.id IN (?)", s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	if viewerID != 0 && filter.IsInShoppingCart {
		q = q.Where("recipes.id IN (?)", s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.withDetails(q).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	m, err := recipeMembership(ctx, s.db, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	results := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, toRecipeResponse(&recipes[i], m))
	}
	return results, total, nil
}

// Get returns one recipe as seen by viewerID
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*types.RecipeResponse, error) {
	recipe, err := s.load(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}
	m, err := recipeMembership(ctx, s.db, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	resp := toRecipeResponse(recipe, m)
	return &resp, nil
}

// Create stores a recipe with its ingredient amounts and tags atomically
func (s *RecipeService) Create(ctx context.Context, authorID uint, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	if err := ValidateRecipe(req); err != nil {
		return nil, err
	}

	var recipeID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveReferences(tx, req)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        req.Name,
			Text:        req.Text,
			Image:       req.Image,
			CookingTime: req.CookingTime,
			PubDate:     s.now(),
		}
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := replaceContents(tx, &recipe, req, tags); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Recipe created", zap.Uint("recipe_id", recipeID), zap.Uint("author_id", authorID))
	return s.Get(ctx, authorID, recipeID)
}

// Update replaces every field, ingredient and tag of a recipe. Only the
// author may update it.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uint, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	recipe, err := s.owned(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecipe(req); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveReferences(tx, req)
		if err != nil {
			return err
		}

		err = tx.Model(recipe).Updates(map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"image":        req.Image,
			"cooking_time": req.CookingTime,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.AmountIngredient{}).Error; err != nil {
			return err
		}
		return replaceContents(tx, recipe, req, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actorID, recipeID)
}

// Delete removes a recipe; amounts, favorites and cart rows cascade
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uint) error {
	recipe, err := s.owned(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(recipe).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	s.log.Info("Recipe deleted", zap.Uint("recipe_id", recipeID), zap.Uint("author_id", actorID))
	return nil
}

func (s *RecipeService) Exists(ctx context.Context, recipeID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RecipeService) owned(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "recipe not found")
		}
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func (s *RecipeService) load(ctx context.Context, db *gorm.DB, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.withDetails(db.WithContext(ctx)).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("amount_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// ValidateRecipe checks a payload before it reaches the database
func ValidateRecipe(req *types.RecipeRequest) error {
	verr := NewValidationError()

	if len(req.Ingredients) == 0 {
		verr.Add("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(req.Ingredients))
	for _, in := range req.Ingredients {
		if seen[in.ID] {
			verr.Add("ingredients", "ingredients must be unique")
			break
		}
		seen[in.ID] = true
	}
	for _, in := range req.Ingredients {
		if in.Amount < models.MinAmount {
			verr.Add("ingredients", "amount must be at least "+strconv.Itoa(models.MinAmount))
			break
		}
	}

	if len(req.Tags) == 0 {
		verr.Add("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			verr.Add("tags", "tags must be unique")
			break
		}
		seenTags[id] = true
	}

	if req.Image == "" {
		verr.Add("image", "this field is required")
	}
	if req.Name == "" {
		verr.Add("name", "this field is required")
	} else if utf8.RuneCountInString(req.Name) > models.MaxRecipeNameLength {
		verr.Add("name", "ensure this field has no more than "+strconv.Itoa(models.MaxRecipeNameLength)+" characters")
	}
	if req.Text == "" {
		verr.Add("text", "this field is required")
	}
	if req.CookingTime < models.MinCookingTime {
		verr.Add("cooking_time", "cooking time must be at least "+strconv.Itoa(models.MinCookingTime))
	}

	return verr.OrNil()
}

// resolveReferences loads the referenced tags and checks every ingredient exists
func resolveReferences(tx *gorm.DB, req *types.RecipeRequest) ([]models.Tag, error) {
	verr := NewValidationError()

	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, in.ID)
	}
	var found []uint
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range missing(ingredientIDs, found) {
		verr.Add("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return nil, err
	}
	tagIDs := make([]uint, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
	}
	for _, id := range missing(req.Tags, tagIDs) {
		verr.Add("tags", fmt.Sprintf("tag %d does not exist", id))
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return tags, nil
}

func replaceContents(tx *gorm.DB, recipe *models.Recipe, req *types.RecipeRequest, tags []models.Tag) error {
	amounts := make([]models.AmountIngredient, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		amounts = append(amounts, models.AmountIngredient{
			RecipeID:     recipe.ID,
			IngredientID: in.ID,
			Amount:       in.Amount,
		})
	}
	if err := tx.Omit("Ingredient").Create(&amounts).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return vanished("ingredients", "an ingredient was removed while saving the recipe")
		}
		return fmt.Errorf("failed to store ingredients: %w", err)
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		if database.IsForeignKeyViolation(err) {
			return vanished("tags", "a tag was removed while saving the recipe")
		}
		return fmt.Errorf("failed to store tags: %w", err)
	}
	return nil
}

func vanished(field, msg string) error {
	verr := NewValidationError()
	verr.Add(field, msg)
	return verr
}

func missing(want, have []uint) []uint {
	present := make(map[uint]bool, len(have))
	for _, id := range have {
		present[id] = true
	}
	var out []uint
	for _, id := range want {
		if !present[id] {
			out = append(out, id)
		}
	}
	return out
}
