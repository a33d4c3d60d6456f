package models

import (
	"fmt"
	"time"
)

// Cart - корзина пользователя
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
}

// CartItem - позиция корзины; пара (корзина, товар) уникальна,
// повторное добавление товара должно менять количество
type CartItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CartID    uint  `gorm:"not null;uniqueIndex:ux_cart_items_cart_product" json:"cart_id"`
	ProductID uint  `gorm:"not null;uniqueIndex:ux_cart_items_cart_product;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
}

// OrderStatus - статус заказа, закрытое перечисление
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses перечисляет допустимые статусы в порядке объявления
var OrderStatuses = []OrderStatus{OrderStatusInProgress, OrderStatusPending, OrderStatusDelivered}

// Valid сообщает, входит ли статус в перечисление
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusInProgress, OrderStatusPending, OrderStatusDelivered:
		return true
	}
	return false
}

// Label возвращает название статуса для отображения
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusInProgress:
		return "In Progress"
	case OrderStatusPending:
		return "Pending"
	case OrderStatusDelivered:
		return "Delivered"
	}
	return string(s)
}

// Order - заказ; ссылается на корзину, карту и адрес
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	CartID    uint        `gorm:"not null;index" json:"cart_id"`
	CardID    uint        `gorm:"not null;index" json:"card_id"`
	AddressID uint        `gorm:"not null;index" json:"address_id"`
	Status    OrderStatus `gorm:"size:100;not null" json:"status"`
	CreatedAt time.Time   `gorm:"autoCreateTime;not null" json:"created_at"`
}

func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }
func (Order) TableName() string    { return "orders" }

func (c Cart) String() string { return fmt.Sprintf("user #%d - Cart", c.UserID) }

func (i CartItem) String() string {
	return fmt.Sprintf("cart #%d - product #%d", i.CartID, i.ProductID)
}

func (o Order) String() string { return fmt.Sprintf("user #%d - Order #%d", o.UserID, o.ID) }

func (c *Cart) Validate() error {
	v := newValidator("cart")
	v.reference("user_id", c.UserID)
	return v.done()
}

func (i *CartItem) Validate() error {
	v := newValidator("cart_item")
	v.reference("cart_id", i.CartID)
	v.reference("product_id", i.ProductID)
	v.positive("quantity", i.Quantity)
	return v.done()
}

func (o *Order) Validate() error {
	v := newValidator("order")
	v.reference("user_id", o.UserID)
	v.reference("cart_id", o.CartID)
	v.reference("card_id", o.CardID)
	v.reference("address_id", o.AddressID)
	checkStatus(v, o.Status)
	return v.done()
}

// ValidateStatus проверяет значение статуса отдельно от остальных полей
func ValidateStatus(status OrderStatus) error {
	v := newValidator("order")
	checkStatus(v, status)
	return v.done()
}

func checkStatus(v *validator, status OrderStatus) {
	if !status.Valid() {
		v.fail("status", "must be one of in_progress, pending, delivered; got %q", string(status))
	}
}
