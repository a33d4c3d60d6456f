package models

import (
	"strings"
	"unicode/utf8"

	"StorefrontService/pkg/apperrors"
)

// validator накапливает первую ошибку проверки полей сущности
type validator struct {
	entity string
	err    error
}

func newValidator(entity string) *validator {
	return &validator{entity: entity}
}

func (v *validator) fail(field, format string, args ...any) {
	if v.err == nil {
		v.err = apperrors.Validation(v.entity, field, format, args...)
	}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required")
	}
}

func (v *validator) maxLen(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		v.fail(field, "must be at most %d characters", limit)
	}
}

// text - обязательная строка ограниченной длины (CharField)
func (v *validator) text(field, value string, limit int) {
	v.required(field, value)
	v.maxLen(field, value, limit)
}

func (v *validator) reference(field string, id uint) {
	if id == 0 {
		v.fail(field, "is required")
	}
}

func (v *validator) nonNegative(field string, value int64) {
	if value < 0 {
		v.fail(field, "must be greater than or equal to 0")
	}
}

func (v *validator) positive(field string, value int64) {
	if value < 1 {
		v.fail(field, "must be greater than or equal to 1")
	}
}

// decimal проверяет numeric(maxDigits, places) и неотрицательность
func (v *validator) decimal(field string, value Amount, maxDigits, places int32) {
	if value.IsNegative() {
		v.fail(field, "must be greater than or equal to 0")
		return
	}
	if !value.fits(maxDigits, places) {
		v.fail(field, "must have at most %d digits with %d decimal places", maxDigits, places)
	}
}

func (v *validator) percent(field string, value Amount) {
	v.decimal(field, value, 5, 2)
	if value.GreaterThan(MustAmount("100").Decimal) {
		v.fail(field, "must be less than or equal to 100")
	}
}

func (v *validator) done() error {
	return v.err
}
