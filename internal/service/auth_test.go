package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := service.NewTokenService("test-secret", time.Hour)
	user := &models.User{ID: 42, Username: "chef"}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "chef", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := service.NewTokenService("one", time.Hour).IssueToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = service.NewTokenService("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := service.NewTokenService("test-secret", -time.Minute)
	token, err := svc.IssueToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.NewTokenService("test-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := service.NewTokenService("test-secret", time.Hour).ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := service.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, service.CheckPassword(hash, "correct horse"))
	assert.False(t, service.CheckPassword(hash, "battery staple"))
}
