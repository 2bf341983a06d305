package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// AdminHandler exposes read-only reports to staff users
type AdminHandler struct {
	reports service.IReportService
	staff   middleware.StaffChecker
	tokens  middleware.TokenValidator
	log     *zap.Logger
	pager   paginator
}

func NewAdminHandler(reports service.IReportService, staff middleware.StaffChecker, tokens middleware.TokenValidator, log *zap.Logger, pager paginator) *AdminHandler {
	return &AdminHandler{reports: reports, staff: staff, tokens: tokens, log: log, pager: pager}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.tokens), middleware.RequireStaff(h.staff))
	{
		admin.GET("/users/", h.Users)
		admin.GET("/recipes/", h.Recipes)
		admin.GET("/ingredients/", h.Ingredients)
		admin.GET("/tags/", h.Tags)
	}
}

func (h *AdminHandler) Users(c *gin.Context) {
	page := h.pager.Request(c)
	rows, total, err := h.reports.Users(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, rows, total))
}

func (h *AdminHandler) Recipes(c *gin.Context) {
	page := h.pager.Request(c)
	rows, total, err := h.reports.Recipes(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, rows, total))
}

func (h *AdminHandler) Ingredients(c *gin.Context) {
	page := h.pager.Request(c)
	rows, total, err := h.reports.Ingredients(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, rows, total))
}

func (h *AdminHandler) Tags(c *gin.Context) {
	rows, err := h.reports.Tags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
