package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const downloadPath = "/api/recipes/download_shopping_cart/"

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, downloadPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decode(t, w), "errors")
}

func TestDownloadShoppingCartEmpty(t *testing.T) {
	router, db := setupRouter(t)
	user := testhelpers.CreateUser(t, db, "alice")

	w := do(t, router, http.MethodGet, downloadPath, testhelpers.TokenFor(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":"your shopping cart is empty"}`, w.Body.String())
}

func TestDownloadShoppingCart(t *testing.T) {
	router, db := setupRouter(t)
	user := testhelpers.CreateUser(t, db, "alice")
	author := testhelpers.CreateUser(t, db, "bob")

	onion := testhelpers.CreateIngredient(t, db, "onion", "pcs")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	water := testhelpers.CreateIngredient(t, db, "water", "ml")

	soup := testhelpers.CreateRecipe(t, db, author, "Soup", []testhelpers.Amount{
		{Ingredient: water, Amount: 500},
		{Ingredient: onion, Amount: 1},
		{Ingredient: salt, Amount: 5},
	})
	stew := testhelpers.CreateRecipe(t, db, author, "Stew", []testhelpers.Amount{
		{Ingredient: onion, Amount: 2},
		{Ingredient: salt, Amount: 3},
	})
	testhelpers.AddToCart(t, db, user, soup)
	testhelpers.AddToCart(t, db, user, stew)

	before := testutil.ToFloat64(metrics.ShoppingListDownloads)

	w := do(t, router, http.MethodGet, downloadPath, testhelpers.TokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, w.Header().Get("Content-Disposition"))

	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Shopping list compiled at:", lines[0])
	assert.Regexp(t, `^\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}$`, lines[1])
	assert.Equal(t, []string{
		"Products:",
		"1. Onion - 3 (pcs)",
		"2. Salt - 8 (g)",
		"3. Water - 500 (ml)",
		"For the following recipes:",
		"Soup",
		"Stew",
	}, lines[2:])

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ShoppingListDownloads))
}

func TestDownloadShoppingCartOnlyOwnCart(t *testing.T) {
	router, db := setupRouter(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	bread := testhelpers.CreateRecipe(t, db, bob, "Bread", []testhelpers.Amount{{Ingredient: flour, Amount: 400}})
	testhelpers.AddToCart(t, db, bob, bread)

	w := do(t, router, http.MethodGet, downloadPath, testhelpers.TokenFor(t, alice), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
