package models

import "fmt"

// Category - раздел каталога; удаление раздела удаляет его товары
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Product - товар каталога
type Product struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Price           Amount `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity        int64  `gorm:"not null" json:"quantity"`
	Description     string `gorm:"type:text;not null" json:"description"`
	DiscountPercent Amount `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	CategoryID      uint   `gorm:"not null;index" json:"category_id"`
	ViewCount       int64  `gorm:"not null" json:"view_count"`
}

// ProductColor - доступный цвет товара
type ProductColor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Color     string `gorm:"size:100;not null" json:"color"`
}

// ProductSize - доступный размер товара
type ProductSize struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Size      string `gorm:"size:100;not null" json:"size"`
}

// ProductImage хранит ссылку на файл изображения (product_images/...)
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Image     string `gorm:"size:100;not null" json:"image"`
}

func (Category) TableName() string     { return "categories" }
func (Product) TableName() string      { return "products" }
func (ProductColor) TableName() string { return "product_colors" }
func (ProductSize) TableName() string  { return "product_sizes" }
func (ProductImage) TableName() string { return "product_images" }

func (c Category) String() string { return c.Name }
func (p Product) String() string  { return p.Name }

func (c ProductColor) String() string { return fmt.Sprintf("product #%d - %s", c.ProductID, c.Color) }
func (s ProductSize) String() string  { return fmt.Sprintf("product #%d - %s", s.ProductID, s.Size) }
func (i ProductImage) String() string { return fmt.Sprintf("product #%d - %s", i.ProductID, i.Image) }

func (c *Category) Validate() error {
	v := newValidator("category")
	v.text("name", c.Name, 100)
	return v.done()
}

func (p *Product) Validate() error {
	v := newValidator("product")
	v.text("name", p.Name, 100)
	v.decimal("price", p.Price, 10, 2)
	v.nonNegative("quantity", p.Quantity)
	v.percent("discount_percent", p.DiscountPercent)
	v.reference("category_id", p.CategoryID)
	v.nonNegative("view_count", p.ViewCount)
	return v.done()
}

func (c *ProductColor) Validate() error {
	v := newValidator("product_color")
	v.reference("product_id", c.ProductID)
	v.text("color", c.Color, 100)
	return v.done()
}

func (s *ProductSize) Validate() error {
	v := newValidator("product_size")
	v.reference("product_id", s.ProductID)
	v.text("size", s.Size, 100)
	return v.done()
}

func (i *ProductImage) Validate() error {
	v := newValidator("product_image")
	v.reference("product_id", i.ProductID)
	v.text("image", i.Image, 100)
	return v.done()
}
