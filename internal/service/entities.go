package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/apperrors"
)

// Repository описывает типовой репозиторий одной таблицы
type Repository[T any] interface {
	Entity() string
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, id uint, entity *T, columns ...string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]T, error)
	ListBy(ctx context.Context, column string, value uint) ([]T, error)
}

// Model - указатель на модель с проверкой полей
type Model[T any] interface {
	*T
	Validate() error
	fmt.Stringer
}

// Checker проверяет существование записи по ID
type Checker interface {
	Exists(ctx context.Context, id uint) error
}

type hooks[T any] struct {
	insert func(ctx context.Context, entity *T) error
	remove func(ctx context.Context, id uint) error
	cached func(ctx context.Context, id uint) (*T, bool)
	fill   func(ctx context.Context, entity *T)
	evict  func(ctx context.Context, id uint)
}

// Option настраивает Entities
type Option[T any] func(*hooks[T])

// WithInsert заменяет вставку записи, например атомарной операцией хранилища
func WithInsert[T any](fn func(ctx context.Context, entity *T) error) Option[T] {
	return func(h *hooks[T]) { h.insert = fn }
}

// WithDelete заменяет удаление записи каскадным удалением
func WithDelete[T any](fn func(ctx context.Context, id uint) error) Option[T] {
	return func(h *hooks[T]) { h.remove = fn }
}

// WithCache включает cache-aside для Get и вытеснение при изменениях
func WithCache[T any](get func(ctx context.Context, id uint) (*T, bool), set func(ctx context.Context, entity *T), evict func(ctx context.Context, id uint)) Option[T] {
	return func(h *hooks[T]) {
		h.cached = get
		h.fill = set
		h.evict = evict
	}
}

// Entities реализует операции над одной сущностью: проверка полей,
// запись в хранилище, поддержка кэша и журналирование
type Entities[T any, P Model[T]] struct {
	hooks[T]
	repo    Repository[T]
	logger  *zap.Logger
	columns []string
}

// NewEntities создает сервис сущности. columns - колонки, которые меняет
// Update; пустой список означает, что запись после создания не изменяется.
func NewEntities[T any, P Model[T]](repo Repository[T], logger *zap.Logger, columns []string, opts ...Option[T]) *Entities[T, P] {
	s := &Entities[T, P]{
		repo:    repo,
		logger:  logger,
		columns: columns,
	}
	for _, opt := range opts {
		opt(&s.hooks)
	}
	return s
}

// Entity возвращает имя сущности
func (s *Entities[T, P]) Entity() string {
	return s.repo.Entity()
}

// Mutable сообщает, поддерживает ли сущность обновление
func (s *Entities[T, P]) Mutable() bool {
	return len(s.columns) > 0
}

// Create проверяет и сохраняет новую запись
func (s *Entities[T, P]) Create(ctx context.Context, entity P) error {
	models.ResetServerFields(entity)
	if err := entity.Validate(); err != nil {
		return err
	}

	insert := s.repo.Create
	if s.insert != nil {
		insert = s.insert
	}
	if err := insert(ctx, (*T)(entity)); err != nil {
		logFailure(s.logger, "Failed to create record", err,
			zap.String("entity", s.Entity()), zap.Stringer("record", entity))
		return err
	}

	s.logger.Info("Record created", zap.String("entity", s.Entity()), zap.Stringer("record", entity))
	return nil
}

// Get получает запись по ID, сначала из кэша, если он подключен
func (s *Entities[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	if s.cached != nil {
		if entity, ok := s.cached(ctx, id); ok {
			s.logger.Debug("Record retrieved from cache", zap.String("entity", s.Entity()), zap.Uint("id", id))
			return entity, nil
		}
	}

	entity, err := s.repo.Get(ctx, id)
	if err != nil {
		logFailure(s.logger, "Failed to get record", err, zap.String("entity", s.Entity()), zap.Uint("id", id))
		return nil, err
	}

	if s.fill != nil {
		s.fill(ctx, entity)
	}
	return entity, nil
}

// Exists возвращает NotFound, если записи нет
func (s *Entities[T, P]) Exists(ctx context.Context, id uint) error {
	_, err := s.Get(ctx, id)
	return err
}

// Update проверяет запись целиком и записывает изменяемые колонки.
// После успешного обновления entity содержит строку из хранилища.
func (s *Entities[T, P]) Update(ctx context.Context, id uint, entity P) error {
	if !s.Mutable() {
		return apperrors.Validation(s.Entity(), "", "cannot be updated")
	}
	models.AssignID(entity, id)
	if err := entity.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, (*T)(entity), s.columns...); err != nil {
		logFailure(s.logger, "Failed to update record", err, zap.String("entity", s.Entity()), zap.Uint("id", id))
		return err
	}

	if s.evict != nil {
		s.evict(ctx, id)
	}

	s.logger.Info("Record updated", zap.String("entity", s.Entity()), zap.Uint("id", id))
	return nil
}

// Delete удаляет запись (каскадно, если задан WithDelete)
func (s *Entities[T, P]) Delete(ctx context.Context, id uint) error {
	remove := s.repo.Delete
	if s.remove != nil {
		remove = s.remove
	}
	if err := remove(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete record", err, zap.String("entity", s.Entity()), zap.Uint("id", id))
		return err
	}

	if s.evict != nil {
		s.evict(ctx, id)
	}

	s.logger.Info("Record deleted", zap.String("entity", s.Entity()), zap.Uint("id", id))
	return nil
}

// List возвращает все записи
func (s *Entities[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to list records", err, zap.String("entity", s.Entity()))
		return nil, err
	}
	return items, nil
}

// ListBy возвращает записи с заданным значением внешнего ключа
func (s *Entities[T, P]) ListBy(ctx context.Context, column string, value uint) ([]T, error) {
	items, err := s.repo.ListBy(ctx, column, value)
	if err != nil {
		logFailure(s.logger, "Failed to list records", err,
			zap.String("entity", s.Entity()), zap.String("column", column), zap.Uint("value", value))
		return nil, err
	}
	return items, nil
}

// ListByParent как ListBy, но для несуществующего родителя возвращает NotFound
func (s *Entities[T, P]) ListByParent(ctx context.Context, parent Checker, column string, parentID uint) ([]T, error) {
	if err := parent.Exists(ctx, parentID); err != nil {
		return nil, err
	}
	return s.ListBy(ctx, column, parentID)
}

// logFailure пишет отказ по вине клиента как Warn, сбой хранилища как Error
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperrors.KindOf(err) == apperrors.KindStorage {
		logger.Error(msg, fields...)
		return
	}
	logger.Warn(msg, fields...)
}
