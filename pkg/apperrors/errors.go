package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Kind классифицирует ошибку для вызывающей стороны
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown"
	}
}

var (
	// ErrValidation - неверное значение поля, длина, диапазон или пропущенное обязательное поле
	ErrValidation = errors.New("validation failed")

	// ErrConflict - нарушение ограничения уникальности
	ErrConflict = errors.New("conflict")

	// ErrNotFound возвращается, когда запись не найдена (обобщенная ошибка)
	ErrNotFound = errors.New("record not found")

	// ErrStorage - сбой хранилища
	ErrStorage = errors.New("storage failure")

	// ErrCacheMiss возвращается, когда запись не найдена в кэше
	ErrCacheMiss = redis.Nil

	// ErrRecordNotFound возвращается, когда запись не найдена в базе данных
	ErrRecordNotFound = gorm.ErrRecordNotFound

	// IgnoredErrors содержит ошибки, которые не должны открывать circuit breaker
	IgnoredErrors = []error{
		ErrNotFound,
		ErrValidation,
		ErrConflict,
		ErrCacheMiss,
		ErrRecordNotFound,
	}
)

// Error - типизированная ошибка доменного слоя
type Error struct {
	Kind    Kind
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Entity != "" {
		msg = e.Entity + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is позволяет сравнивать ошибку с сентинелами через errors.Is
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

// Validation создает ошибку валидации поля
func Validation(entity, field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflict создает ошибку нарушения уникальности
func Conflict(entity, message string, cause error) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: message, Err: cause}
}

// NotFound создает ошибку отсутствующей записи
func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf("id %v not found", id)}
}

// MissingReference создает ошибку ссылки на несуществующую родительскую запись
func MissingReference(entity, reference string, cause error) *Error {
	msg := "referenced record does not exist"
	if reference != "" {
		msg = reference + " " + msg
	}
	return &Error{Kind: KindNotFound, Entity: entity, Message: msg, Err: cause}
}

// Storage оборачивает сбой хранилища
func Storage(operation string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: operation + " failed", Err: cause}
}

// KindOf возвращает вид ошибки; неизвестные ошибки считаются сбоем хранилища
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if IsNotFound(err) {
		return KindNotFound
	}
	return KindStorage
}

// HTTPStatus сопоставляет ошибку с HTTP статусом
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound проверяет, является ли ошибка ошибкой "запись не найдена"
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCacheMiss) ||
		errors.Is(err, ErrRecordNotFound)
}
