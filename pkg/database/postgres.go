package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"StorefrontService/config"
	"StorefrontService/pkg/logger"
	"StorefrontService/pkg/resilience"
)

// NewPostgresDB создает новое подключение к PostgreSQL.
// Схема создается миграциями (cmd/migrate), AutoMigrate не выполняется.
func NewPostgresDB(ctx context.Context, cfg config.PostgresConfig, retry resilience.RetryOptions, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	retry.Permanent = isPermanentConnectError

	err := resilience.WithRetry(ctx, log, "connect_postgres", retry, func(ctx context.Context) error {
		conn, err := Open(postgres.Open(cfg.DSN()), log, cfg)
		if err != nil {
			return err
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}

		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return db, nil
}

// isPermanentConnectError - неверные учетные данные или отсутствующая база
func isPermanentConnectError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "28000", "28P01", "3D000":
		return true
	}
	return false
}

// Open настраивает gorm поверх заданного диалекта: zap-логгер,
// трансляция ошибок драйвера и параметры пула соединений
func Open(dialector gorm.Dialector, log *zap.Logger, cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Настройка пула соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}
