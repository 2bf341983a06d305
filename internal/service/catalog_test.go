package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestIngredientSearch(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Salt", "g")
	testhelpers.CreateIngredient(t, db, "salmon", "g")
	testhelpers.CreateIngredient(t, db, "basalt", "g")
	testhelpers.CreateIngredient(t, db, "sa_ge", "g")

	found, err := svc.Search(ctx, "SAL")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, i := range found {
		names = append(names, i.Name)
	}
	assert.ElementsMatch(t, []string{"Salt", "salmon"}, names)

	// LIKE wildcards in the prefix are literal
	found, err = svc.Search(ctx, "sa_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sa_ge", found[0].Name)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTags(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewTagService(db)
	ctx := context.Background()

	dinner := testhelpers.CreateTag(t, db, "Dinner", "dinner")
	testhelpers.CreateTag(t, db, "Breakfast", "breakfast")

	tags, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	tag, err := svc.Get(ctx, dinner.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TagResponse{ID: dinner.ID, Name: "Dinner", Slug: "dinner"}, *tag)
}

func TestReports(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReportService(db)
	ctx := context.Background()
	page := types.PageRequest{Page: 1, Limit: 10}

	chef := testhelpers.CreateUser(t, db, "chef")
	fan := testhelpers.CreateUser(t, db, "fan")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	lunch := testhelpers.CreateTag(t, db, "Lunch", "lunch")
	soup := testhelpers.CreateRecipe(t, db, chef, "Soup", []testhelpers.Amount{{Ingredient: salt, Amount: 1}}, lunch)
	testhelpers.CreateRecipe(t, db, chef, "Stew", []testhelpers.Amount{{Ingredient: salt, Amount: 2}}, lunch)
	testhelpers.AddFavorite(t, db, fan, soup)
	testhelpers.Subscribe(t, db, fan, chef)

	users, total, err := svc.Users(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, "chef", users[0].Username)
	assert.Equal(t, int64(2), users[0].RecipesCount)
	assert.Equal(t, int64(1), users[0].SubscribersCount)
	assert.Equal(t, int64(1), users[1].FavoritesCount)

	recipes, _, err := svc.Recipes(ctx, page)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Soup", recipes[1].Name)
	assert.Equal(t, "chef", recipes[1].AuthorUsername)
	assert.Equal(t, int64(1), recipes[1].FavoritesCount)

	ingredients, _, err := svc.Ingredients(ctx, page)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, int64(2), ingredients[0].RecipesCount)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, int64(2), tags[0].RecipesCount)
}
