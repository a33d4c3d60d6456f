package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"StorefrontService/pkg/apperrors"
)

// Коды ошибок PostgreSQL, которые переводятся в доменные ошибки
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
	pgInvalidDatetime     = "22007"
	pgDatetimeOverflow    = "22008"
)

// translateError переводит ошибку драйвера или gorm в таксономию apperrors.
// Уже переведенные ошибки возвращаются как есть.
func translateError(entity string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.Conflict(entity, "already exists ("+pgErr.ConstraintName+")", err)
		case pgForeignKeyViolation:
			return apperrors.MissingReference(entity, pgErr.ConstraintName, err)
		case pgCheckViolation, pgNotNullViolation, pgStringTooLong, pgNumericOutOfRange, pgInvalidDatetime, pgDatetimeOverflow:
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}
			return apperrors.Validation(entity, field, "%s", pgErr.Message)
		}
	}

	// С TranslateError gorm подменяет ошибку драйвера своими сентинелами
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(entity, "already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.MissingReference(entity, "", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.Validation(entity, "", "violates check constraint")
	}

	return apperrors.Storage(entity, err)
}

// notFoundOr возвращает NotFound для gorm.ErrRecordNotFound и
// переведенную ошибку в остальных случаях
func notFoundOr(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return translateError(entity, err)
}
