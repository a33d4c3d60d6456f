package rest

import (
	"context"
	"reflect"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"StorefrontService/internal/models"
	"StorefrontService/internal/service"
	"StorefrontService/pkg/apperrors"
)

// memTable - таблица в памяти; ID и внешние ключи читаются через reflect
type memTable[T any] struct {
	entity string
	rows   map[uint]T
	next   uint
	err    error
}

func newMemTable[T any](entity string) *memTable[T] {
	return &memTable[T]{entity: entity, rows: map[uint]T{}}
}

func setID(v any, id uint) {
	reflect.ValueOf(v).Elem().FieldByName("ID").SetUint(uint64(id))
}

func idOf(v any) uint {
	return uint(reflect.ValueOf(v).Elem().FieldByName("ID").Uint())
}

func (m *memTable[T]) Entity() string { return m.entity }

func (m *memTable[T]) Create(_ context.Context, entity *T) error {
	if m.err != nil {
		return m.err
	}
	// Как и BIGSERIAL, таблица сама выдает ID
	if idOf(entity) != 0 {
		return apperrors.Conflict(m.entity, "id is assigned by the table", nil)
	}
	m.next++
	setID(entity, m.next)
	m.rows[m.next] = *entity
	return nil
}

func (m *memTable[T]) Get(_ context.Context, id uint) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound(m.entity, id)
	}
	return &row, nil
}

func (m *memTable[T]) Update(_ context.Context, id uint, entity *T, _ ...string) error {
	if _, ok := m.rows[id]; !ok || idOf(entity) != id {
		return apperrors.NotFound(m.entity, id)
	}
	m.rows[id] = *entity
	return nil
}

func (m *memTable[T]) Delete(_ context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok {
		return apperrors.NotFound(m.entity, id)
	}
	delete(m.rows, id)
	return nil
}

func (m *memTable[T]) List(_ context.Context) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]uint, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var items []T
	for _, id := range ids {
		items = append(items, m.rows[id])
	}
	return items, nil
}

// ListBy сравнивает поле с json именем column
func (m *memTable[T]) ListBy(ctx context.Context, column string, value uint) ([]T, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var items []T
	for _, row := range all {
		v := reflect.ValueOf(row)
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).Tag.Get("json") == column && uint(v.Field(i).Uint()) == value {
				items = append(items, row)
			}
		}
	}
	return items, nil
}

// memCascade выполняет каскадные операции как одиночные
type memCascade struct {
	calls []string
	carts *memTable[models.CartItem]
}

func (c *memCascade) DeleteUser(context.Context, uint) error {
	c.calls = append(c.calls, "user")
	return nil
}

func (c *memCascade) DeleteCard(context.Context, uint) error    { return nil }
func (c *memCascade) DeleteAddress(context.Context, uint) error { return nil }
func (c *memCascade) DeleteProduct(context.Context, uint) error { return nil }
func (c *memCascade) DeleteCart(context.Context, uint) error    { return nil }

func (c *memCascade) DeleteCategory(context.Context, uint) ([]uint, error) {
	c.calls = append(c.calls, "category")
	return nil, nil
}

func (c *memCascade) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = 1
	return nil
}

func (c *memCascade) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	return c.carts.Create(ctx, item)
}

type testStore struct {
	services   *service.Services
	cascade    *memCascade
	categories *memTable[models.Category]
	products   *memTable[models.Product]
	orders     *memTable[models.Order]
}

func newTestStore() *testStore {
	items := newMemTable[models.CartItem]("cart_item")
	st := &testStore{
		cascade:    &memCascade{carts: items},
		categories: newMemTable[models.Category]("category"),
		products:   newMemTable[models.Product]("product"),
		orders:     newMemTable[models.Order]("order"),
	}

	tables := service.Tables{
		Users:      newMemTable[models.User]("user"),
		Cards:      newMemTable[models.UserCard]("user_card"),
		Addresses:  newMemTable[models.UserAddress]("user_address"),
		Categories: st.categories,
		Products:   st.products,
		Colors:     newMemTable[models.ProductColor]("product_color"),
		Sizes:      newMemTable[models.ProductSize]("product_size"),
		Images:     newMemTable[models.ProductImage]("product_image"),
		Ratings:    newMemTable[models.ProductRating]("product_rating"),
		Comments:   newMemTable[models.ProductComment]("product_comment"),
		Likes:      newMemTable[models.Like]("like"),
		Carts:      newMemTable[models.Cart]("cart"),
		CartItems:  items,
		Orders:     st.orders,
		PromoCodes: newMemTable[models.PromoCode]("promo_code"),
	}

	st.services = service.NewServices(tables, st.cascade, nil, zap.NewNop())
	st.services.Users.WithPasswordCost(bcrypt.MinCost)
	return st
}
