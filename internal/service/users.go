package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserService handles accounts, passwords and avatars
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// Register creates an account. Email and username clashes are reported as
// field errors; a clash that slips past the check surfaces as ErrConflict.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	verr := NewValidationError()

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("email", "a user with that email already exists")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("username", "a user with that username already exists")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, newClientError(ErrConflict, "a user with that email or username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	resp := toUserResponse(&user, false)
	return &resp, nil
}

// List returns a page of users ordered by email
func (s *UserService) List(ctx context.Context, viewerID uint, page types.PageRequest) ([]types.UserResponse, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("email").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := subscribedTo(ctx, s.db, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	results := make([]types.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, toUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return results, total, nil
}

// Get returns the public profile of userID as seen by viewerID
func (s *UserService) Get(ctx context.Context, viewerID, userID uint) (*types.UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	subscribed, err := subscribedTo(ctx, s.db, viewerID, []uint{userID})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, subscribed[userID])
	return &resp, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}

// SetPassword replaces the password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, current) {
		return newClientError(ErrInvalidCredentials, "current password is incorrect")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error
}

// SetAvatar stores avatar as given and returns it
func (s *UserService) SetAvatar(ctx context.Context, userID uint, avatar string) (string, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", avatar)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", newClientError(ErrNotFound, "user not found")
	}
	return avatar, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", nil).Error
}

func (s *UserService) IsStaff(ctx context.Context, userID uint) (bool, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff, nil
}

// EnsureAdmin creates a staff account unless the username is taken.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Email:        email,
		Username:     username,
		FirstName:    username,
		LastName:     username,
		PasswordHash: hash,
		IsStaff:      true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("Admin account created", zap.String("username", username), zap.String("email", email))
	return true, nil
}

func (s *UserService) find(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newClientError(ErrNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}
