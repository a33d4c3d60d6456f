package service

import (
	"context"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
)

// newCatalog создает сервисы разделов и товаров. Чтение идет через кэш,
// изменения и удаления вытесняют записи; удаление раздела вытесняет
// также все товары, удаленные каскадом.
func newCatalog(tables Tables, cascade CascadeStore, cache CatalogCache, logger *zap.Logger) (
	*Entities[models.Category, *models.Category], *Entities[models.Product, *models.Product],
) {
	deleteCategory := func(ctx context.Context, id uint) error {
		productIDs, err := cascade.DeleteCategory(ctx, id)
		if err != nil {
			return err
		}
		if cache != nil {
			cache.EvictCategory(ctx, id, productIDs...)
		}
		logger.Info("Category deleted with products",
			zap.Uint("category_id", id), zap.Int("products", len(productIDs)))
		return nil
	}

	categoryOpts := []Option[models.Category]{WithDelete[models.Category](deleteCategory)}
	productOpts := []Option[models.Product]{WithDelete[models.Product](cascade.DeleteProduct)}

	if cache != nil {
		categoryOpts = append(categoryOpts, WithCache(
			cache.GetCategory,
			cache.SetCategory,
			func(ctx context.Context, id uint) { cache.EvictCategory(ctx, id) },
		))
		productOpts = append(productOpts, WithCache(
			cache.GetProduct,
			cache.SetProduct,
			cache.EvictProduct,
		))
	}

	categories := NewEntities[models.Category](tables.Categories, logger, []string{"name"}, categoryOpts...)
	products := NewEntities[models.Product](tables.Products, logger,
		[]string{"name", "price", "quantity", "description", "discount_percent", "category_id", "view_count"},
		productOpts...)

	return categories, products
}
