//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestPostgresConstraints(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, bob, "Bread", []testhelpers.Amount{{Ingredient: flour, Amount: 500}})

	testhelpers.AddFavorite(t, db, alice, recipe)
	err := db.Create(&models.Favorite{UserID: alice.ID, RecipeID: recipe.ID}).Error
	assert.True(t, database.IsUniqueViolation(err), "duplicate favorite: %v", err)

	err = db.Create(&models.Ingredient{Name: "flour", MeasurementUnit: "g"}).Error
	assert.True(t, database.IsUniqueViolation(err), "duplicate ingredient: %v", err)

	err = db.Create(&models.Subscription{UserID: alice.ID, AuthorID: alice.ID}).Error
	assert.True(t, database.IsCheckViolation(err), "self subscription: %v", err)

	err = db.Create(&models.AmountIngredient{RecipeID: recipe.ID, IngredientID: flour.ID + 100, Amount: 1}).Error
	assert.True(t, database.IsForeignKeyViolation(err), "dangling ingredient: %v", err)

	err = db.Exec("UPDATE amount_ingredients SET amount = 0 WHERE recipe_id = ?", recipe.ID).Error
	assert.True(t, database.IsCheckViolation(err), "zero amount: %v", err)
}

func TestPostgresCascades(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	tag := testhelpers.CreateTag(t, db, "Baking", "baking")
	recipe := testhelpers.CreateRecipe(t, db, bob, "Bread", []testhelpers.Amount{{Ingredient: flour, Amount: 500}}, tag)
	testhelpers.AddToCart(t, db, alice, recipe)
	testhelpers.AddFavorite(t, db, alice, recipe)
	testhelpers.Subscribe(t, db, alice, bob)

	require.NoError(t, db.Delete(&models.User{}, bob.ID).Error)

	for _, model := range []interface{}{&models.Recipe{}, &models.AmountIngredient{}, &models.ShoppingCart{}, &models.Favorite{}, &models.Subscription{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
	var links int64
	require.NoError(t, db.Table("recipe_tags").Count(&links).Error)
	assert.Zero(t, links)
}

func TestPostgresShoppingListExport(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	onion := testhelpers.CreateIngredient(t, db, "onion", "pcs")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	soup := testhelpers.CreateRecipe(t, db, alice, "Soup", []testhelpers.Amount{{Ingredient: onion, Amount: 1}, {Ingredient: salt, Amount: 5}})
	stew := testhelpers.CreateRecipe(t, db, alice, "Stew", []testhelpers.Amount{{Ingredient: onion, Amount: 2}})
	testhelpers.AddToCart(t, db, alice, soup)
	testhelpers.AddToCart(t, db, alice, stew)

	carts := service.NewShoppingCartService(db)
	rows, err := carts.CartRows(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Soup", rows[0].RecipeName)
	assert.Equal(t, "Stew", rows[2].RecipeName)

	collections := service.NewCollectionService(db)
	_, err = collections.Add(context.Background(), service.ShoppingCart, alice.ID, soup.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	users := service.NewUserService(db, zap.NewNop())
	_, err = users.Register(context.Background(), registerRequest("alice@example.com", "alice2"))
	assert.Error(t, err)
}
