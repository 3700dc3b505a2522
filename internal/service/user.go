package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"MindTrack/internal/model"
	"MindTrack/internal/repository"
	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
	"MindTrack/storage/database"
	"MindTrack/utils"
)

// api 中的 user_id 是 public_id，即 token 中的 uid

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = NewUserService(repository.NewUserRepository(database.DB()))
	})
	return userService
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile 获取用户资料，未建档返回 USER_NOT_FOUND
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.UserProfileData, error) {
	user, err := s.users.FindByPublicID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Ctx(ctx).Error("Failed to query user", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, userLookupError(err)
	}

	data := model.NewUserProfileData(user)
	return &data, nil
}

// UpdateProfile 为 token 对应的身份建档或更新资料
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.UserProfileData, error) {
	username := utils.NormalizeUsername(req.Username)
	if !utils.ValidateUsername(username) {
		return nil, pkgerrors.UserProfileInvalid.WithMessage("username must be 3-32 characters of lowercase letters, digits or underscore")
	}
	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if !utils.ValidateEmail(email) {
		return nil, pkgerrors.UserProfileInvalid.WithMessage("email is invalid")
	}
	if fullName == "" {
		return nil, pkgerrors.UserProfileInvalid.WithMessage("fullName is required")
	}

	user := &model.User{
		PublicID: userID,
		Username: username,
		Email:    email,
		FullName: fullName,
	}
	if err := s.users.SaveProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, pkgerrors.UserAlreadyExists
		}
		logger.Ctx(ctx).Error("Failed to save user profile", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.PersistenceFailed
	}

	data := model.NewUserProfileData(user)
	return &data, nil
}
