package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StorefrontService/internal/service"
	"StorefrontService/pkg/apperrors"
)

// resource - типовые CRUD обработчики одной сущности
type resource[T any, P service.Model[T]] struct {
	svc    *service.Entities[T, P]
	logger *zap.Logger
}

func newResource[T any, P service.Model[T]](svc *service.Entities[T, P], logger *zap.Logger) *resource[T, P] {
	return &resource[T, P]{svc: svc, logger: logger}
}

// register подключает GET/PUT/DELETE по /:id
func (r *resource[T, P]) register(g *gin.RouterGroup, path string) {
	g.GET(path+"/:id", r.get)
	g.PUT(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.remove)
}

// registerRoot подключает список и создание без родителя
func (r *resource[T, P]) registerRoot(g *gin.RouterGroup, path string) {
	g.GET(path, r.list)
	g.POST(path, r.create(nil))
	r.register(g, path)
}

func (r *resource[T, P]) create(assign func(P, uint)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parentID uint
		if assign != nil {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			parentID = id
		}

		entity := P(new(T))
		if !decodeBody(c, entity, assign != nil) {
			return
		}
		if assign != nil {
			assign(entity, parentID)
		}

		if err := r.svc.Create(c.Request.Context(), entity); err != nil {
			respondError(c, r.logger, err)
			return
		}
		c.JSON(http.StatusCreated, entity)
	}
}

func (r *resource[T, P]) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entity, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// update накладывает тело запроса на текущую запись; сервис проверяет
// запись целиком и записывает только изменяемые колонки
func (r *resource[T, P]) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !r.svc.Mutable() {
		respondError(c, r.logger, apperrors.Validation(r.svc.Entity(), "", "cannot be updated"))
		return
	}

	current, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}

	entity := P(current)
	if !decodeBody(c, entity, false) {
		return
	}

	if err := r.svc.Update(c.Request.Context(), id, entity); err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (r *resource[T, P]) remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := r.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *resource[T, P]) list(c *gin.Context) {
	items, err := r.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(items))
}

// children возвращает записи родителя из пути /:id
func (r *resource[T, P]) children(parent service.Checker, column string) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID, ok := pathID(c, "id")
		if !ok {
			return
		}

		items, err := r.svc.ListByParent(c.Request.Context(), parent, column, parentID)
		if err != nil {
			respondError(c, r.logger, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(items))
	}
}

// pathID разбирает числовой идентификатор из пути
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, NewValidationError("invalid identifier", "",
			FieldError{Field: name, Message: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// decodeBody разбирает JSON тело в dst. Пустое тело допустимо, если allowEmpty.
func decodeBody(c *gin.Context, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, NewValidationError("invalid request body", err.Error()))
	return false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
