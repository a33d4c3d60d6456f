package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
	"StorefrontService/internal/service"
)

// Users - операции с учетными записями, нужные заполнению
type Users interface {
	List(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
}

// Creator сохраняет новую запись
type Creator[P any] interface {
	Create(ctx context.Context, entity P) error
}

// DevEnvironmentSeeder заполняет пустую базу демонстрационными данными
type DevEnvironmentSeeder struct {
	users      Users
	categories Creator[*models.Category]
	products   Creator[*models.Product]
	promoCodes Creator[*models.PromoCode]
	logger     *zap.Logger
}

// NewDevEnvironmentSeeder создает новый объект для заполнения тестовыми данными
func NewDevEnvironmentSeeder(svc *service.Services, logger *zap.Logger) *DevEnvironmentSeeder {
	return &DevEnvironmentSeeder{
		users:      svc.Users,
		categories: svc.Categories,
		products:   svc.Products,
		promoCodes: svc.PromoCodes,
		logger:     logger,
	}
}

// SeedAllDevData создает пользователя, раздел, товар и промокод.
// Если пользователи уже есть, база считается заполненной.
func (s *DevEnvironmentSeeder) SeedAllDevData(ctx context.Context) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Демонстрационные данные уже есть, пропускаем заполнение", zap.Int("users", len(existing)))
		return nil
	}

	user, err := s.users.CreateUser(ctx, &models.CreateUserRequest{
		Username:  "demo",
		Password:  "demo-password",
		FirstName: "John",
		LastName:  "Doe",
	})
	if err != nil {
		return fmt.Errorf("не удалось создать тестового пользователя: %w", err)
	}

	category := &models.Category{Name: "Shoes"}
	if err := s.categories.Create(ctx, category); err != nil {
		return fmt.Errorf("не удалось создать раздел: %w", err)
	}

	product := &models.Product{
		Name:            "Runner",
		Price:           models.MustAmount("49.99"),
		Quantity:        10,
		Description:     "Легкие беговые кроссовки",
		DiscountPercent: models.MustAmount("10.00"),
		CategoryID:      category.ID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("не удалось создать товар: %w", err)
	}

	promo := &models.PromoCode{
		Code:            "WELCOME10",
		DiscountPercent: models.MustAmount("10.00"),
		MinPrice:        models.MustAmount("0.00"),
		MaxPrice:        models.MustAmount("1000.00"),
	}
	if err := s.promoCodes.Create(ctx, promo); err != nil {
		return fmt.Errorf("не удалось создать промокод: %w", err)
	}

	s.logger.Info("Демонстрационные данные созданы",
		zap.Uint("user_id", user.ID),
		zap.Uint("category_id", category.ID),
		zap.Uint("product_id", product.ID))
	return nil
}
