package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/service"
)

// respondError maps a service error onto its status code. Anything the
// service layer does not classify is logged and hidden behind a 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrNotInCollection),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	default:
		log.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"errors": "not found"})
}
