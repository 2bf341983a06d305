package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

const (
	// TestJWTSecret signs every token minted by TokenFor
	TestJWTSecret = "test-jwt-secret"
	// TestPassword is the plain password of every fixture user
	TestPassword = "fixture-password"
)

// Amount pairs an ingredient with a quantity when building fixture recipes
type Amount struct {
	Ingredient models.Ingredient
	Amount     int
}

// CreateUser inserts a user whose email derives from username
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	hash, err := service.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateStaff inserts a staff user
func CreateStaff(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := CreateUser(t, db, username)
	if err := db.Model(&user).Update("is_staff", true).Error; err != nil {
		t.Fatalf("failed to promote %s: %v", username, err)
	}
	user.IsStaff = true
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// CreateRecipe inserts a recipe with its amounts and tags. Recipes created
// later get a later pub date.
func CreateRecipe(t *testing.T, db *gorm.DB, author models.User, name string, amounts []Amount, tags ...models.Tag) models.Recipe {
	t.Helper()

	var count int64
	db.Model(&models.Recipe{}).Count(&count)

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		CookingTime: 15,
		PubDate:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(count) * time.Minute),
		Tags:        tags,
	}
	for _, a := range amounts {
		recipe.Ingredients = append(recipe.Ingredients, models.AmountIngredient{
			IngredientID: a.Ingredient.ID,
			Amount:       a.Amount,
		})
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}

func AddToCart(t *testing.T, db *gorm.DB, user models.User, recipe models.Recipe) {
	t.Helper()
	if err := db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to add recipe %d to cart: %v", recipe.ID, err)
	}
}

func AddFavorite(t *testing.T, db *gorm.DB, user models.User, recipe models.Recipe) {
	t.Helper()
	if err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to favorite recipe %d: %v", recipe.ID, err)
	}
}

func Subscribe(t *testing.T, db *gorm.DB, follower, author models.User) {
	t.Helper()
	if err := db.Create(&models.Subscription{UserID: follower.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("failed to subscribe %d to %d: %v", follower.ID, author.ID, err)
	}
}

// TokenFor returns a bearer token for user signed with TestJWTSecret
func TokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := service.NewTokenService(TestJWTSecret, time.Hour).IssueToken(&user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}
