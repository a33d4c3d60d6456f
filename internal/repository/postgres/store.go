package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/apperrors"
	"StorefrontService/pkg/database"
)

// Store объединяет репозитории таблиц и операции, затрагивающие
// несколько таблиц: каскадные удаления, создание заказа, upsert позиции корзины.
// Каждая такая операция выполняется в одной транзакции.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger

	Users      *Table[models.User]
	Cards      *Table[models.UserCard]
	Addresses  *Table[models.UserAddress]
	Categories *Table[models.Category]
	Products   *Table[models.Product]
	Colors     *Table[models.ProductColor]
	Sizes      *Table[models.ProductSize]
	Images     *Table[models.ProductImage]
	Ratings    *Table[models.ProductRating]
	Comments   *Table[models.ProductComment]
	Likes      *Table[models.Like]
	Carts      *Table[models.Cart]
	CartItems  *Table[models.CartItem]
	Orders     *Table[models.Order]
	PromoCodes *Table[models.PromoCode]
}

// NewStore создает хранилище поверх подключения gorm
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:         db,
		logger:     logger,
		Users:      NewTable[models.User](db, logger, "user"),
		Cards:      NewTable[models.UserCard](db, logger, "user_card"),
		Addresses:  NewTable[models.UserAddress](db, logger, "user_address"),
		Categories: NewTable[models.Category](db, logger, "category"),
		Products:   NewTable[models.Product](db, logger, "product"),
		Colors:     NewTable[models.ProductColor](db, logger, "product_color"),
		Sizes:      NewTable[models.ProductSize](db, logger, "product_size"),
		Images:     NewTable[models.ProductImage](db, logger, "product_image"),
		Ratings:    NewTable[models.ProductRating](db, logger, "product_rating"),
		Comments:   NewTable[models.ProductComment](db, logger, "product_comment"),
		Likes:      NewTable[models.Like](db, logger, "like"),
		Carts:      NewTable[models.Cart](db, logger, "cart"),
		CartItems:  NewTable[models.CartItem](db, logger, "cart_item"),
		Orders:     NewTable[models.Order](db, logger, "order"),
		PromoCodes: NewTable[models.PromoCode](db, logger, "promo_code"),
	}
}

// transaction выполняет fn в транзакции с метриками и логированием
func (s *Store) transaction(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	return database.SafeDBOperation(ctx, s.db, s.logger, operation, func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

// deleteRoot удаляет корневую строку каскада; отсутствие строки - NotFound
func deleteRoot(tx *gorm.DB, model any, entity string, id uint) error {
	result := tx.Delete(model, id)
	if result.Error != nil {
		return translateError(entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(entity, id)
	}
	return nil
}

// deleteWhere удаляет зависимые строки по условию
func deleteWhere(tx *gorm.DB, model any, entity string, query string, args ...any) error {
	if err := tx.Where(query, args...).Delete(model).Error; err != nil {
		return translateError(entity, err)
	}
	return nil
}

// deleteProductChildren удаляет все строки, ссылающиеся на товары
func deleteProductChildren(tx *gorm.DB, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}

	children := []struct {
		model  any
		entity string
	}{
		{&models.ProductColor{}, "product_color"},
		{&models.ProductSize{}, "product_size"},
		{&models.ProductImage{}, "product_image"},
		{&models.ProductRating{}, "product_rating"},
		{&models.ProductComment{}, "product_comment"},
		{&models.Like{}, "like"},
		{&models.CartItem{}, "cart_item"},
	}
	for _, child := range children {
		if err := deleteWhere(tx, child.model, child.entity, "product_id IN ?", productIDs); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUser удаляет пользователя вместе с картами, адресами, корзинами
// (и их позициями), заказами, оценками, комментариями и отметками
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.transaction(ctx, "user.delete_cascade", func(tx *gorm.DB) error {
		carts := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", id)
		cards := tx.Model(&models.UserCard{}).Select("id").Where("user_id = ?", id)
		addresses := tx.Model(&models.UserAddress{}).Select("id").Where("user_id = ?", id)

		if err := deleteWhere(tx, &models.Order{}, "order",
			"user_id = ? OR cart_id IN (?) OR card_id IN (?) OR address_id IN (?)",
			id, carts, cards, addresses); err != nil {
			return err
		}
		if err := deleteWhere(tx, &models.CartItem{}, "cart_item", "cart_id IN (?)", carts); err != nil {
			return err
		}

		dependents := []struct {
			model  any
			entity string
		}{
			{&models.Cart{}, "cart"},
			{&models.UserCard{}, "user_card"},
			{&models.UserAddress{}, "user_address"},
			{&models.ProductRating{}, "product_rating"},
			{&models.ProductComment{}, "product_comment"},
			{&models.Like{}, "like"},
		}
		for _, o := range dependents {
			if err := deleteWhere(tx, o.model, o.entity, "user_id = ?", id); err != nil {
				return err
			}
		}

		return deleteRoot(tx, &models.User{}, "user", id)
	})
}

// DeleteCategory удаляет раздел и все его товары с их зависимыми строками.
// Возвращает идентификаторы удаленных товаров для инвалидации кэша.
func (s *Store) DeleteCategory(ctx context.Context, id uint) ([]uint, error) {
	var productIDs []uint
	err := s.transaction(ctx, "category.delete_cascade", func(tx *gorm.DB) error {
		productIDs = nil
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Order("id").Pluck("id", &productIDs).Error; err != nil {
			return translateError("product", err)
		}

		if err := deleteProductChildren(tx, productIDs); err != nil {
			return err
		}
		if err := deleteWhere(tx, &models.Product{}, "product", "category_id = ?", id); err != nil {
			return err
		}

		return deleteRoot(tx, &models.Category{}, "category", id)
	})
	if err != nil {
		return nil, err
	}
	return productIDs, nil
}

// DeleteProduct удаляет товар с цветами, размерами, изображениями,
// оценками, комментариями, отметками и позициями корзин
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.transaction(ctx, "product.delete_cascade", func(tx *gorm.DB) error {
		if err := deleteProductChildren(tx, []uint{id}); err != nil {
			return err
		}
		return deleteRoot(tx, &models.Product{}, "product", id)
	})
}

// DeleteCart удаляет корзину, ее позиции и заказы, оформленные на нее
func (s *Store) DeleteCart(ctx context.Context, id uint) error {
	return s.transaction(ctx, "cart.delete_cascade", func(tx *gorm.DB) error {
		if err := deleteWhere(tx, &models.Order{}, "order", "cart_id = ?", id); err != nil {
			return err
		}
		if err := deleteWhere(tx, &models.CartItem{}, "cart_item", "cart_id = ?", id); err != nil {
			return err
		}
		return deleteRoot(tx, &models.Cart{}, "cart", id)
	})
}

// DeleteCard удаляет карту и заказы, оплаченные ею
func (s *Store) DeleteCard(ctx context.Context, id uint) error {
	return s.transaction(ctx, "user_card.delete_cascade", func(tx *gorm.DB) error {
		if err := deleteWhere(tx, &models.Order{}, "order", "card_id = ?", id); err != nil {
			return err
		}
		return deleteRoot(tx, &models.UserCard{}, "user_card", id)
	})
}

// DeleteAddress удаляет адрес и заказы с доставкой на него
func (s *Store) DeleteAddress(ctx context.Context, id uint) error {
	return s.transaction(ctx, "user_address.delete_cascade", func(tx *gorm.DB) error {
		if err := deleteWhere(tx, &models.Order{}, "order", "address_id = ?", id); err != nil {
			return err
		}
		return deleteRoot(tx, &models.UserAddress{}, "user_address", id)
	})
}

// ownership - идентификатор строки и ее владелец
type ownership struct {
	ID     uint
	UserID uint
}

// checkOwner загружает владельца ссылки заказа и сверяет его с заказчиком
func checkOwner(tx *gorm.DB, model any, entity, field string, id, userID uint) error {
	var row ownership
	err := tx.Model(model).Select("id", "user_id").Where("id = ?", id).Take(&row).Error
	if err != nil {
		return notFoundOr(entity, id, err)
	}
	if row.UserID != userID {
		return apperrors.Validation("order", field, "%s %d does not belong to user %d", entity, id, userID)
	}
	return nil
}

// CreateOrder атомарно проверяет, что корзина, карта и адрес существуют
// и принадлежат заказчику, и создает заказ
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	models.ResetServerFields(order)
	return s.transaction(ctx, "order.create", func(tx *gorm.DB) error {
		refs := []struct {
			model  any
			entity string
			field  string
			id     uint
		}{
			{&models.Cart{}, "cart", "cart_id", order.CartID},
			{&models.UserCard{}, "user_card", "card_id", order.CardID},
			{&models.UserAddress{}, "user_address", "address_id", order.AddressID},
		}
		for _, ref := range refs {
			if err := checkOwner(tx, ref.model, ref.entity, ref.field, ref.id, order.UserID); err != nil {
				return err
			}
		}

		return translateError("order", tx.Create(order).Error)
	})
}

// UpsertCartItem задает количество товара в корзине: вставляет позицию
// или обновляет количество существующей одной командой INSERT ... ON CONFLICT
func (s *Store) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	item.ID = 0
	return database.SafeDBOperation(ctx, s.db, s.logger, "cart_item.upsert", func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).Create(item).Error
		return translateError("cart_item", err)
	})
}
