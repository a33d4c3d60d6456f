package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StorefrontService/internal/models"
	"StorefrontService/internal/service"
)

// SampleData - статический ответ GET /api/data
type SampleData struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	City string `json:"city"`
}

// sampleData не зависит от хранилища и не меняется
var sampleData = SampleData{Name: "John Doe", Age: 30, City: "New York"}

// GetData возвращает статический JSON без параметров и побочных эффектов
func GetData(c *gin.Context) {
	c.JSON(http.StatusOK, sampleData)
}

// UserHandler обрабатывает регистрацию и изменение учетных записей
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUserHandler создает новый экземпляр UserHandler
func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Create регистрирует пользователя
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if !decodeBody(c, &req, false) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update меняет переданные поля профиля
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeBody(c, &req, false) {
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// OrderHandler обрабатывает смену статуса заказа
type OrderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

// UpdateStatusRequest - тело PUT /orders/:id
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// NewOrderHandler создает новый экземпляр OrderHandler
func NewOrderHandler(orders *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// UpdateStatus задает статус заказа
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeBody(c, &req, false) {
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CartItemHandler задает количество товара в корзине
type CartItemHandler struct {
	items  *service.CartItemService
	logger *zap.Logger
}

// SetQuantityRequest - тело PUT /carts/:id/items/:product_id
type SetQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// NewCartItemHandler создает новый экземпляр CartItemHandler
func NewCartItemHandler(items *service.CartItemService, logger *zap.Logger) *CartItemHandler {
	return &CartItemHandler{items: items, logger: logger}
}

// SetQuantity добавляет позицию или меняет количество существующей
func (h *CartItemHandler) SetQuantity(c *gin.Context) {
	cartID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}

	var req SetQuantityRequest
	if !decodeBody(c, &req, false) {
		return
	}

	item, err := h.items.SetQuantity(c.Request.Context(), cartID, productID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
