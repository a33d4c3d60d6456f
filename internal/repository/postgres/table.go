package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/apperrors"
	"StorefrontService/pkg/database"
)

// Table - типовой CRUD для одной таблицы. Каскадные удаления
// выполняются методами Store, Delete удаляет только саму строку.
type Table[T any] struct {
	db     *gorm.DB
	logger *zap.Logger
	entity string
}

// NewTable создает репозиторий таблицы; entity используется в ошибках и метриках
func NewTable[T any](db *gorm.DB, logger *zap.Logger, entity string) *Table[T] {
	return &Table[T]{db: db, logger: logger, entity: entity}
}

// Entity возвращает имя сущности
func (t *Table[T]) Entity() string {
	return t.entity
}

func (t *Table[T]) run(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	return database.SafeDBOperation(ctx, t.db, t.logger, t.entity+"."+operation, fn)
}

// Create вставляет запись; первичный ключ и значения по умолчанию
// заполняются из RETURNING, переданные ID и время создания игнорируются
func (t *Table[T]) Create(ctx context.Context, entity *T) error {
	models.ResetServerFields(entity)
	return t.run(ctx, "create", func(tx *gorm.DB) error {
		return translateError(t.entity, tx.Create(entity).Error)
	})
}

// Get возвращает запись по первичному ключу
func (t *Table[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := t.run(ctx, "get", func(tx *gorm.DB) error {
		return notFoundOr(t.entity, id, tx.First(&entity, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update записывает перечисленные колонки и перечитывает строку.
// Колонки, не вошедшие в список (created_at, date_joined), не меняются.
func (t *Table[T]) Update(ctx context.Context, id uint, entity *T, columns ...string) error {
	if len(columns) == 0 {
		return apperrors.Validation(t.entity, "", "no fields to update")
	}
	models.AssignID(entity, id)

	return t.run(ctx, "update", func(tx *gorm.DB) error {
		result := tx.Model(new(T)).Where("id = ?", id).Select(columns).Updates(entity)
		if result.Error != nil {
			return translateError(t.entity, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound(t.entity, id)
		}

		var fresh T
		if err := tx.First(&fresh, id).Error; err != nil {
			return notFoundOr(t.entity, id, err)
		}
		*entity = fresh
		return nil
	})
}

// Delete удаляет одну строку без каскада
func (t *Table[T]) Delete(ctx context.Context, id uint) error {
	return t.run(ctx, "delete", func(tx *gorm.DB) error {
		result := tx.Delete(new(T), id)
		if result.Error != nil {
			return translateError(t.entity, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound(t.entity, id)
		}
		return nil
	})
}

// List возвращает все записи в порядке создания
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := t.run(ctx, "list", func(tx *gorm.DB) error {
		return translateError(t.entity, tx.Order("id").Find(&items).Error)
	})
	return items, err
}

// ListBy возвращает записи с заданным значением внешнего ключа
func (t *Table[T]) ListBy(ctx context.Context, column string, value uint) ([]T, error) {
	var items []T
	err := t.run(ctx, "list_by_"+column, func(tx *gorm.DB) error {
		return translateError(t.entity, tx.Where(column+" = ?", value).Order("id").Find(&items).Error)
	})
	return items, err
}
