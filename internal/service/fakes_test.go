package service

import (
	"context"
	"sort"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/apperrors"
)

// fakeRepo - репозиторий в памяти для тестов сервисов
type fakeRepo[T any] struct {
	entity  string
	rows    map[uint]T
	next    uint
	setID   func(*T, uint)
	foreign func(T, string) uint

	gets    int
	columns []string
	err     error
}

func newFakeRepo[T any](entity string, setID func(*T, uint), foreign func(T, string) uint) *fakeRepo[T] {
	return &fakeRepo[T]{entity: entity, rows: make(map[uint]T), setID: setID, foreign: foreign}
}

func (r *fakeRepo[T]) Entity() string { return r.entity }

func (r *fakeRepo[T]) Create(_ context.Context, entity *T) error {
	if r.err != nil {
		return r.err
	}
	r.next++
	r.setID(entity, r.next)
	r.rows[r.next] = *entity
	return nil
}

func (r *fakeRepo[T]) Get(_ context.Context, id uint) (*T, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NotFound(r.entity, id)
	}
	return &row, nil
}

func (r *fakeRepo[T]) Update(_ context.Context, id uint, entity *T, columns ...string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[id]; !ok {
		return apperrors.NotFound(r.entity, id)
	}
	r.columns = columns
	r.setID(entity, id)
	r.rows[id] = *entity
	return nil
}

func (r *fakeRepo[T]) Delete(_ context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return apperrors.NotFound(r.entity, id)
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo[T]) List(_ context.Context) ([]T, error) {
	ids := make([]uint, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, r.rows[id])
	}
	return items, nil
}

func (r *fakeRepo[T]) ListBy(ctx context.Context, column string, value uint) ([]T, error) {
	all, _ := r.List(ctx)
	var items []T
	for _, row := range all {
		if r.foreign(row, column) == value {
			items = append(items, row)
		}
	}
	return items, nil
}

// fakeCascade записывает вызовы каскадных операций
type fakeCascade struct {
	calls      []string
	productIDs []uint
	orderErr   error
	upserted   *models.CartItem
}

func (c *fakeCascade) DeleteUser(context.Context, uint) error {
	c.calls = append(c.calls, "user")
	return nil
}

func (c *fakeCascade) DeleteCard(context.Context, uint) error {
	c.calls = append(c.calls, "card")
	return nil
}

func (c *fakeCascade) DeleteAddress(context.Context, uint) error {
	c.calls = append(c.calls, "address")
	return nil
}

func (c *fakeCascade) DeleteCategory(context.Context, uint) ([]uint, error) {
	c.calls = append(c.calls, "category")
	return c.productIDs, nil
}

func (c *fakeCascade) DeleteProduct(context.Context, uint) error {
	c.calls = append(c.calls, "product")
	return nil
}

func (c *fakeCascade) DeleteCart(context.Context, uint) error {
	c.calls = append(c.calls, "cart")
	return nil
}

func (c *fakeCascade) CreateOrder(_ context.Context, order *models.Order) error {
	c.calls = append(c.calls, "order")
	if c.orderErr != nil {
		return c.orderErr
	}
	order.ID = 1
	return nil
}

func (c *fakeCascade) UpsertCartItem(_ context.Context, item *models.CartItem) error {
	c.calls = append(c.calls, "cart_item")
	item.ID = 1
	c.upserted = item
	return nil
}

// fakeCache - кэш каталога в памяти
type fakeCache struct {
	categories map[uint]models.Category
	products   map[uint]models.Product
}

func newFakeCache() *fakeCache {
	return &fakeCache{categories: map[uint]models.Category{}, products: map[uint]models.Product{}}
}

func (c *fakeCache) GetCategory(_ context.Context, id uint) (*models.Category, bool) {
	v, ok := c.categories[id]
	return &v, ok
}

func (c *fakeCache) SetCategory(_ context.Context, category *models.Category) {
	c.categories[category.ID] = *category
}

func (c *fakeCache) EvictCategory(_ context.Context, id uint, productIDs ...uint) {
	delete(c.categories, id)
	for _, pid := range productIDs {
		delete(c.products, pid)
	}
}

func (c *fakeCache) GetProduct(_ context.Context, id uint) (*models.Product, bool) {
	v, ok := c.products[id]
	return &v, ok
}

func (c *fakeCache) SetProduct(_ context.Context, product *models.Product) {
	c.products[product.ID] = *product
}

func (c *fakeCache) EvictProduct(_ context.Context, id uint) {
	delete(c.products, id)
}

func noForeignKey[T any](T, string) uint { return 0 }
