package service

import (
	"context"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
)

// OrderService работает с заказами. Создание заказа атомарно проверяет,
// что корзина, карта и адрес принадлежат заказчику. Статус меняется
// на любое допустимое значение без правил перехода.
type OrderService struct {
	*Entities[models.Order, *models.Order]
	repo   Repository[models.Order]
	logger *zap.Logger
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(repo Repository[models.Order], cascade CascadeStore, logger *zap.Logger) *OrderService {
	return &OrderService{
		Entities: NewEntities[models.Order](repo, logger, []string{"status"},
			WithInsert[models.Order](cascade.CreateOrder)),
		repo:   repo,
		logger: logger,
	}
}

// UpdateStatus задает статус заказа
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if err := models.ValidateStatus(status); err != nil {
		return nil, err
	}

	order := &models.Order{Status: status}
	if err := s.repo.Update(ctx, id, order, "status"); err != nil {
		logFailure(s.logger, "Failed to update order status", err, zap.Uint("order_id", id))
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.Uint("order_id", id),
		zap.String("status", string(status)),
		zap.Stringer("order", order))
	return order, nil
}

// CartItemService работает с позициями корзин
type CartItemService struct {
	*Entities[models.CartItem, *models.CartItem]
	cascade CascadeStore
	logger  *zap.Logger
}

// NewCartItemService создает новый экземпляр CartItemService
func NewCartItemService(repo Repository[models.CartItem], cascade CascadeStore, logger *zap.Logger) *CartItemService {
	return &CartItemService{
		Entities: NewEntities[models.CartItem](repo, logger, []string{"quantity"}),
		cascade:  cascade,
		logger:   logger,
	}
}

// SetQuantity задает количество товара в корзине: добавляет позицию
// или меняет количество существующей
func (s *CartItemService) SetQuantity(ctx context.Context, cartID, productID uint, quantity int64) (*models.CartItem, error) {
	item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.cascade.UpsertCartItem(ctx, item); err != nil {
		logFailure(s.logger, "Failed to set cart item quantity", err, zap.Stringer("item", item))
		return nil, err
	}

	s.logger.Info("Cart item quantity set", zap.Stringer("item", item), zap.Int64("quantity", quantity))
	return item, nil
}
