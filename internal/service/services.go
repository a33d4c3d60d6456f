package service

import (
	"context"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
)

// CascadeStore описывает операции хранилища, затрагивающие несколько таблиц
type CascadeStore interface {
	DeleteUser(ctx context.Context, id uint) error
	DeleteCard(ctx context.Context, id uint) error
	DeleteAddress(ctx context.Context, id uint) error
	DeleteCategory(ctx context.Context, id uint) ([]uint, error)
	DeleteProduct(ctx context.Context, id uint) error
	DeleteCart(ctx context.Context, id uint) error
	CreateOrder(ctx context.Context, order *models.Order) error
	UpsertCartItem(ctx context.Context, item *models.CartItem) error
}

// CatalogCache описывает кэш каталога. Реализация не возвращает ошибок:
// сбой кэша равносилен промаху.
type CatalogCache interface {
	GetCategory(ctx context.Context, id uint) (*models.Category, bool)
	SetCategory(ctx context.Context, category *models.Category)
	EvictCategory(ctx context.Context, id uint, productIDs ...uint)
	GetProduct(ctx context.Context, id uint) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	EvictProduct(ctx context.Context, id uint)
}

// Tables - репозитории таблиц, с которыми работают сервисы
type Tables struct {
	Users      Repository[models.User]
	Cards      Repository[models.UserCard]
	Addresses  Repository[models.UserAddress]
	Categories Repository[models.Category]
	Products   Repository[models.Product]
	Colors     Repository[models.ProductColor]
	Sizes      Repository[models.ProductSize]
	Images     Repository[models.ProductImage]
	Ratings    Repository[models.ProductRating]
	Comments   Repository[models.ProductComment]
	Likes      Repository[models.Like]
	Carts      Repository[models.Cart]
	CartItems  Repository[models.CartItem]
	Orders     Repository[models.Order]
	PromoCodes Repository[models.PromoCode]
}

// Services объединяет сервисы всех сущностей магазина
type Services struct {
	Users      *UserService
	Cards      *Entities[models.UserCard, *models.UserCard]
	Addresses  *Entities[models.UserAddress, *models.UserAddress]
	Categories *Entities[models.Category, *models.Category]
	Products   *Entities[models.Product, *models.Product]
	Colors     *Entities[models.ProductColor, *models.ProductColor]
	Sizes      *Entities[models.ProductSize, *models.ProductSize]
	Images     *Entities[models.ProductImage, *models.ProductImage]
	Ratings    *Entities[models.ProductRating, *models.ProductRating]
	Comments   *Entities[models.ProductComment, *models.ProductComment]
	Likes      *Entities[models.Like, *models.Like]
	Carts      *Entities[models.Cart, *models.Cart]
	CartItems  *CartItemService
	Orders     *OrderService
	PromoCodes *Entities[models.PromoCode, *models.PromoCode]
}

// NewServices собирает сервисы. cache может быть nil, тогда каталог
// читается только из хранилища.
func NewServices(tables Tables, cascade CascadeStore, cache CatalogCache, logger *zap.Logger) *Services {
	categories, products := newCatalog(tables, cascade, cache, logger)

	return &Services{
		Users: NewUserService(tables.Users, cascade, logger),
		Cards: NewEntities[models.UserCard](tables.Cards, logger,
			[]string{"card_number", "expiration_date"},
			WithDelete[models.UserCard](cascade.DeleteCard)),
		Addresses: NewEntities[models.UserAddress](tables.Addresses, logger,
			[]string{"name", "mobile_number", "house_number", "street", "city", "state", "country", "pincode"},
			WithDelete[models.UserAddress](cascade.DeleteAddress)),

		Categories: categories,
		Products:   products,
		Colors:     NewEntities[models.ProductColor](tables.Colors, logger, []string{"color"}),
		Sizes:      NewEntities[models.ProductSize](tables.Sizes, logger, []string{"size"}),
		Images:     NewEntities[models.ProductImage](tables.Images, logger, []string{"image"}),

		Ratings:  NewEntities[models.ProductRating](tables.Ratings, logger, []string{"rating"}),
		Comments: NewEntities[models.ProductComment](tables.Comments, logger, []string{"comment"}),
		Likes:    NewEntities[models.Like](tables.Likes, logger, nil),

		Carts: NewEntities[models.Cart](tables.Carts, logger, nil,
			WithDelete[models.Cart](cascade.DeleteCart)),
		CartItems: NewCartItemService(tables.CartItems, cascade, logger),
		Orders:    NewOrderService(tables.Orders, cascade, logger),

		PromoCodes: NewEntities[models.PromoCode](tables.PromoCodes, logger,
			[]string{"code", "discount_percent", "min_price", "max_price"}),
	}
}
