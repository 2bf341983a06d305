package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the services the HTTP layer is built from
type Dependencies struct {
	DB            *gorm.DB
	Log           *zap.Logger
	Tokens        service.ITokenService
	Users         service.IUserService
	Subscriptions service.ISubscriptionService
	Tags          service.ITagService
	Ingredients   service.IIngredientService
	Recipes       service.IRecipeService
	Collections   service.ICollectionService
	Carts         service.IShoppingCartService
	Reports       service.IReportService

	// CreationLimiter is optional; nil disables rate limiting
	CreationLimiter *middleware.RateLimiter

	BaseURL  string
	PageSize int
}

// NewDependencies wires the gorm-backed services
func NewDependencies(db *gorm.DB, log *zap.Logger, tokens service.ITokenService) Dependencies {
	return Dependencies{
		DB:            db,
		Log:           log,
		Tokens:        tokens,
		Users:         service.NewUserService(db, log),
		Subscriptions: service.NewSubscriptionService(db),
		Tags:          service.NewTagService(db),
		Ingredients:   service.NewIngredientService(db),
		Recipes:       service.NewRecipeService(db, log),
		Collections:   service.NewCollectionService(db),
		Carts:         service.NewShoppingCartService(db),
		Reports:       service.NewReportService(db),
		PageSize:      defaultPageSize,
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	RegisterValidators()

	health := NewHealthHandler(deps.DB)
	router.GET("/health", health.Check)
	router.GET("/api/health", health.Check)

	links := NewLinkHandler(deps.Recipes, deps.Log, deps.BaseURL)
	router.GET("/s/:id", links.Redirect)

	pager := newPaginator(deps.BaseURL, deps.PageSize)

	api := router.Group("/api")
	NewUserHandler(deps.Users, deps.Subscriptions, deps.Tokens, deps.Log, pager).RegisterRoutes(api)
	NewCatalogHandler(deps.Tags, deps.Ingredients, deps.Log).RegisterRoutes(api)
	NewRecipeHandler(deps.Recipes, deps.Collections, deps.Carts, deps.Tokens, deps.Log, pager, links).
		WithCreationLimiter(deps.CreationLimiter).
		RegisterRoutes(api)
	NewAdminHandler(deps.Reports, deps.Users, deps.Tokens, deps.Log, pager).RegisterRoutes(api)
}
