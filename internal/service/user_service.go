package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/apperrors"
)

// UserService представляет сервис для работы с учетными записями.
// Чтение, список и каскадное удаление делегируются Entities,
// регистрация и изменение профиля работают с паролем.
type UserService struct {
	*Entities[models.User, *models.User]
	repo         Repository[models.User]
	logger       *zap.Logger
	passwordCost int
}

// NewUserService создает новый экземпляр UserService
func NewUserService(repo Repository[models.User], cascade CascadeStore, logger *zap.Logger) *UserService {
	return &UserService{
		Entities:     NewEntities[models.User](repo, logger, nil, WithDelete[models.User](cascade.DeleteUser)),
		repo:         repo,
		logger:       logger,
		passwordCost: bcrypt.DefaultCost,
	}
}

// WithPasswordCost задает стоимость bcrypt
func (s *UserService) WithPasswordCost(cost int) *UserService {
	s.passwordCost = cost
	return s
}

func (s *UserService) hashPassword(password string) (string, error) {
	if err := models.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", apperrors.Storage("hash password", err)
	}
	return string(hash), nil
}

// CreateUser регистрирует пользователя. Пароль сохраняется только в виде
// хеша; notification_type по умолчанию включен.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	notify := true
	if req.NotificationType != nil {
		notify = *req.NotificationType
	}

	user := &models.User{
		Username:         req.Username,
		PasswordHash:     hash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		IsActive:         true,
		NotificationType: notify,
		ProfilePicture:   req.ProfilePicture,
	}

	if err := s.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser применяет переданные поля профиля; date_joined не меняется
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var columns []string
	if req.Username != nil {
		user.Username = *req.Username
		columns = append(columns, "username")
	}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		columns = append(columns, "password")
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		columns = append(columns, "first_name")
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
		columns = append(columns, "last_name")
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
		columns = append(columns, "is_active")
	}
	if req.NotificationType != nil {
		user.NotificationType = *req.NotificationType
		columns = append(columns, "notification_type")
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
		if *req.ProfilePicture == "" {
			user.ProfilePicture = nil
		}
		columns = append(columns, "profile_picture")
	}

	if len(columns) == 0 {
		return nil, apperrors.Validation("user", "", "no fields to update")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, user, columns...); err != nil {
		logFailure(s.logger, "Failed to update user", err, zap.Uint("user_id", id))
		return nil, err
	}

	s.logger.Info("User updated", zap.Uint("user_id", id), zap.Strings("fields", columns))
	return user, nil
}

// CheckPassword сверяет пароль с сохраненным хешем
func (s *UserService) CheckPassword(ctx context.Context, id uint, password string) (bool, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}
