package main

import (
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"StorefrontService/config"
	"StorefrontService/internal/migrate"
	"StorefrontService/pkg/logger"
)

func main() {
	configPath := pflag.String("config", "", "config file")
	direction := pflag.StringP("direction", "d", string(migrate.Up), "up or down")
	steps := pflag.IntP("steps", "n", 0, "number of steps, 0 applies all")
	databaseURL := pflag.String("database-url", "", "postgres:// URL, overrides config")
	pflag.Parse()

	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	url := *databaseURL
	if url == "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatal("Не удалось загрузить конфигурацию", zap.Error(err))
		}
		url = cfg.Postgres.URL()
	}

	dir := migrate.Direction(*direction)
	if dir != migrate.Up && dir != migrate.Down {
		log.Error("Неизвестное направление миграции", zap.String("direction", *direction))
		os.Exit(2)
	}

	if err := migrate.Run(url, dir, *steps, log); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}

	log.Info("Миграция успешно завершена")
}
