package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// HealthHandler reports liveness along with database reachability
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check returns the health status of the API
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
	})
}

// LinkHandler serves short recipe links
type LinkHandler struct {
	recipes service.IRecipeService
	log     *zap.Logger
	baseURL string
}

func NewLinkHandler(recipes service.IRecipeService, log *zap.Logger, baseURL string) *LinkHandler {
	return &LinkHandler{recipes: recipes, log: log, baseURL: baseURL}
}

// GetLink returns the short link of a recipe
func (h *LinkHandler) GetLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	exists, err := h.recipes.Exists(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !exists {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{
		ShortLink: absoluteURL(c, h.baseURL, "/s/"+strconv.FormatUint(uint64(id), 10)),
	})
}

// Redirect sends the browser to the recipe page, or to the 404 page
func (h *LinkHandler) Redirect(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.Redirect(http.StatusFound, "/404/")
		return
	}
	exists, err := h.recipes.Exists(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !exists {
		c.Redirect(http.StatusFound, "/404/")
		return
	}
	c.Redirect(http.StatusFound, "/recipes/"+strconv.FormatUint(id, 10)+"/")
}

// parseID reads the :id path parameter; a malformed id is a 404
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		notFound(c)
		return 0, false
	}
	return uint(id), true
}

// queryFlag reports whether a boolean filter such as is_favorited=1 is set
func queryFlag(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}
