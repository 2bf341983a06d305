//go:build integration

package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest(email, username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "long-enough-password",
	}
}

func TestRecipeCreationRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := testhelpers.SetupRedis(t)
	limiter := middleware.NewRecipeCreationRateLimiter(client, 2, zap.NewNop())
	tokens := service.NewTokenService(testhelpers.TestJWTSecret, time.Hour)

	router := gin.New()
	router.POST("/recipes/", middleware.AuthMiddleware(tokens), limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.TokenFor(t, testhelpers.CreateUser(t, db, "alice"))
	bob := testhelpers.TokenFor(t, testhelpers.CreateUser(t, db, "bob"))

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/recipes/", strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, post(alice).Code)
	w := post(alice)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = post(alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// limits are per user
	assert.Equal(t, http.StatusCreated, post(bob).Code)
}
