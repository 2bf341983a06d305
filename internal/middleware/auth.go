package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const userIDKey = "user_id"

var (
	errMissingHeader = errors.New("authentication credentials were not provided")
	errBadHeader     = errors.New("invalid authorization header format")
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// StaffChecker reports whether a user may see staff-only endpoints
type StaffChecker interface {
	IsStaff(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, validator)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": err.Error()})
			return
		}

		// Store user info in context
		c.Set(userIDKey, claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuth identifies the user when a token is present. A missing
// header means anonymous; a present but invalid token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		AuthMiddleware(validator)(c)
	}
}

// RequireStaff must run after AuthMiddleware
func RequireStaff(checker StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": errMissingHeader.Error()})
			return
		}
		staff, err := checker.IsStaff(c.Request.Context(), userID)
		if err != nil || !staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"errors": "you do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, if any
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// authenticate accepts both "Bearer <jwt>" and "Token <jwt>"
func authenticate(c *gin.Context, validator TokenValidator) (*types.TokenClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errMissingHeader
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		return nil, errBadHeader
	}

	return validator.ValidateToken(parts[1])
}
