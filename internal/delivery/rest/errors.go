package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StorefrontService/pkg/apperrors"
	"StorefrontService/pkg/server"
)

// BaseError универсальный формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание
// Details — дополнительная строка (пояснение, исходная ошибка разбора)
// Fields — для валидационных ошибок (имя поля + текст)
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError отдельная ошибка по конкретному полю
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationError ошибка разбора запроса (400)
func NewValidationError(msg, details string, fields ...FieldError) BaseError {
	return BaseError{Code: apperrors.KindValidation.String(), Message: msg, Details: details, Fields: fields}
}

// NewErrorResponse сопоставляет ошибку сервиса со статусом и телом ответа.
// Причина сбоя хранилища клиенту не раскрывается.
func NewErrorResponse(err error) (int, BaseError) {
	code := apperrors.HTTPStatus(err)
	body := BaseError{Code: apperrors.KindOf(err).String(), Message: err.Error()}

	if code == http.StatusInternalServerError {
		body.Message = "internal server error"
		return code, body
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Field != "" {
			body.Fields = []FieldError{{Field: appErr.Field, Message: appErr.Message}}
		}
		if appErr.Err != nil {
			body.Message = (&apperrors.Error{Kind: appErr.Kind, Entity: appErr.Entity, Field: appErr.Field, Message: appErr.Message}).Error()
			body.Details = appErr.Err.Error()
		}
	}
	return code, body
}

// respondError пишет ответ с ошибкой и журналирует его
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	code, body := NewErrorResponse(err)

	log := server.WithRequestID(c.Request.Context(), logger)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
	} else {
		log.Debug("Request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	}

	c.AbortWithStatusJSON(code, body)
}
