package models

import (
	"fmt"
	"time"
)

// ProductRating - оценка товара; не более одной на пару (товар, пользователь)
type ProductRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:ux_product_ratings_product_user" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_product_ratings_product_user;index" json:"user_id"`
	Rating    int64     `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
}

// ProductComment - комментарий к товару; ограничения уникальности нет
type ProductComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
}

// Like - отметка "нравится"; уникальна для пары (пользователь, товар)
type Like struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:ux_likes_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:ux_likes_user_product;index" json:"product_id"`
}

func (ProductRating) TableName() string  { return "product_ratings" }
func (ProductComment) TableName() string { return "product_comments" }
func (Like) TableName() string           { return "likes" }

func (r ProductRating) String() string {
	return fmt.Sprintf("product #%d - %d", r.ProductID, r.Rating)
}

// String показывает первые 20 символов комментария
func (c ProductComment) String() string {
	text := []rune(c.Comment)
	if len(text) > 20 {
		text = text[:20]
	}
	return fmt.Sprintf("product #%d - %s", c.ProductID, string(text))
}

func (l Like) String() string {
	return fmt.Sprintf("user #%d - product #%d", l.UserID, l.ProductID)
}

func (r *ProductRating) Validate() error {
	v := newValidator("product_rating")
	v.reference("product_id", r.ProductID)
	v.reference("user_id", r.UserID)
	v.positive("rating", r.Rating)
	return v.done()
}

func (c *ProductComment) Validate() error {
	v := newValidator("product_comment")
	v.reference("product_id", c.ProductID)
	v.reference("user_id", c.UserID)
	v.required("comment", c.Comment)
	return v.done()
}

func (l *Like) Validate() error {
	v := newValidator("like")
	v.reference("user_id", l.UserID)
	v.reference("product_id", l.ProductID)
	return v.done()
}
