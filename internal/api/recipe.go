package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes     service.IRecipeService
	collections service.ICollectionService
	carts       service.IShoppingCartService
	tokens      middleware.TokenValidator
	log         *zap.Logger
	pager       paginator
	links       *LinkHandler

	creationLimiter *middleware.RateLimiter
	now             func() time.Time
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	collections service.ICollectionService,
	carts service.IShoppingCartService,
	tokens middleware.TokenValidator,
	log *zap.Logger,
	pager paginator,
	links *LinkHandler,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		collections: collections,
		carts:       carts,
		tokens:      tokens,
		log:         log,
		pager:       pager,
		links:       links,
		now:         time.Now,
	}
}

// WithCreationLimiter rate limits POST /recipes/; nil leaves it unlimited
func (h *RecipeHandler) WithCreationLimiter(limiter *middleware.RateLimiter) *RecipeHandler {
	h.creationLimiter = limiter
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.tokens)
	optional := middleware.OptionalAuth(h.tokens)

	create := []gin.HandlerFunc{auth}
	if h.creationLimiter != nil {
		create = append(create, h.creationLimiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optional, h.ListRecipes)
		recipes.POST("/", create...)
		recipes.GET("/download_shopping_cart/", auth, h.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.GetRecipe)
		recipes.PATCH("/:id/", auth, h.UpdateRecipe)
		recipes.DELETE("/:id/", auth, h.DeleteRecipe)
		recipes.GET("/:id/get-link/", h.links.GetLink)
		recipes.POST("/:id/favorite/", auth, h.addTo(service.Favorites))
		recipes.DELETE("/:id/favorite/", auth, h.removeFrom(service.Favorites))
		recipes.POST("/:id/shopping_cart/", auth, h.addTo(service.ShoppingCart))
		recipes.DELETE("/:id/shopping_cart/", auth, h.removeFrom(service.ShoppingCart))
	}
}

// ListRecipes supports ?author=, repeated ?tags=<slug>, and for signed-in
// users ?is_favorited=1 and ?is_in_shopping_cart=1
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID, authenticated := middleware.UserID(c)

	filter := types.RecipeFilter{TagSlugs: c.QueryArray("tags")}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 0)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": []string{"enter a valid user id"}})
			return
		}
		filter.AuthorID = uint(id)
	}
	if authenticated {
		filter.IsFavorited = queryFlag(c, "is_favorited")
		filter.IsInShoppingCart = queryFlag(c, "is_in_shopping_cart")
	}

	page := h.pager.Request(c)
	recipes, total, err := h.recipes.List(c.Request.Context(), viewerID, filter, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, recipes, total))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.UserID(c)

	recipe, err := h.recipes.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	metrics.RecipesCreated.Inc()
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces the whole recipe; only its author may do so
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addTo(collection service.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)

		summary, err := h.collections.Add(c.Request.Context(), collection, userID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *RecipeHandler) removeFrom(collection service.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)

		if err := h.collections.Remove(c.Request.Context(), collection, userID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the aggregated shopping list as a text attachment
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	body, err := h.carts.Export(c.Request.Context(), userID, h.now())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	metrics.ShoppingListDownloads.Inc()
	c.Header("Content-Disposition", `attachment; filename="`+shoppinglist.Filename+`"`)
	c.Data(http.StatusOK, shoppinglist.ContentType, []byte(body))
}
