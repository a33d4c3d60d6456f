package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StorefrontService/config"
	"StorefrontService/internal/database/seed"
	"StorefrontService/internal/delivery/grpc"
	"StorefrontService/internal/delivery/rest"
	"StorefrontService/internal/migrate"
	"StorefrontService/internal/repository/postgres"
	redisrepo "StorefrontService/internal/repository/redis"
	"StorefrontService/internal/service"
	"StorefrontService/pkg/database"
	"StorefrontService/pkg/logger"
	"StorefrontService/pkg/server"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig(config.ConfigPath(os.Args[1:]))
	if err != nil {
		logger.NewLogger().Fatal("Не удалось загрузить конфигурацию", zap.Error(err))
	}

	// Инициализация логгера
	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Info("Запуск сервиса магазина",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	resilienceCfg := config.DefaultResilienceConfig()
	gracefulShutdown := server.NewGracefulShutdown(log, resilienceCfg.ShutdownTimeout)
	ctx := context.Background()

	if cfg.App.MigrateOnStart {
		if err := migrate.Run(cfg.Postgres.URL(), migrate.Up, 0, log); err != nil {
			log.Fatal("Не удалось применить миграции", zap.Error(err))
		}
	}

	// Подключение к PostgreSQL
	db, err := database.NewPostgresDB(ctx, cfg.Postgres, resilienceCfg.StartupRetry(), log)
	if err != nil {
		log.Fatal("Не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Не удалось получить экземпляр SQL DB", zap.Error(err))
	}
	gracefulShutdown.Register("postgres", func(ctx context.Context) error {
		return sqlDB.Close()
	})

	// Подключение к Redis; без него каталог читается напрямую из PostgreSQL
	var redisClient *redis.Client
	var cache service.CatalogCache
	if cfg.Cache.Enabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis, resilienceCfg.StartupRetry(), log)
		if err != nil {
			log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
		gracefulShutdown.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})

		cacheRepo := redisrepo.NewCacheRepository(redisClient, cfg.Cache.CategoryTTL, cfg.Cache.ProductTTL)
		cache = redisrepo.NewCatalogCache(redisClient, cacheRepo, log)
	} else {
		log.Info("Кэш каталога отключен")
	}

	store := postgres.NewStore(db, log)
	services := service.NewServices(tablesOf(store), store, cache, log)

	if cfg.IsDevelopment() || cfg.App.SeedDemoData {
		if err := seed.NewDevEnvironmentSeeder(services, log).SeedAllDevData(ctx); err != nil {
			log.Error("Не удалось заполнить демонстрационные данные", zap.Error(err))
		}
	}

	healthChecker := database.NewDatabaseHealthChecker(db, redisClient, log).
		WithProbeTimeout(resilienceCfg.ProbeTimeout)

	// Метрики Prometheus
	metricsServer := server.MetricsServer(cfg.Metrics.Port, log)
	gracefulShutdown.Register("metrics", metricsServer.Shutdown)

	// HTTP сервер проверки здоровья
	healthCheck := server.NewHealthCheck(healthChecker, log, cfg.App.Version)
	healthCheck.StartServer(cfg.Health.Port)
	gracefulShutdown.Register("health", healthCheck.Stop)

	// gRPC health + reflection
	grpcServer := grpc.NewServer(healthChecker, log, cfg.GRPC.Port)
	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC сервер остановлен с ошибкой", zap.Error(err))
		}
	}()
	gracefulShutdown.Register("grpc", grpcServer.Stop)

	// REST API
	router := rest.NewRouter(services, rest.RouterConfig{
		Mode:           cfg.HTTP.Mode,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, log)
	httpServer := rest.NewHTTPServer(cfg.HTTP.Port, router)
	go func() {
		log.Info("Запуск HTTP сервера", zap.Int("port", cfg.HTTP.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Не удалось запустить HTTP сервер", zap.Error(err))
		}
	}()
	gracefulShutdown.Register("http", httpServer.Shutdown)

	hostname, _ := os.Hostname()
	log.Info("Сервис успешно запущен",
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("grpc_port", cfg.GRPC.Port),
		zap.Int("health_port", cfg.Health.Port),
		zap.Int("metrics_port", cfg.Metrics.Port),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Int("pid", os.Getpid()),
		zap.String("hostname", hostname))

	// Ожидаем сигнала остановки
	if err := gracefulShutdown.Wait(ctx); err != nil {
		log.Error("Завершение работы выполнено с ошибками", zap.Error(err))
		return
	}
	log.Info("Завершение работы сервиса выполнено")
}

// tablesOf отдает сервисам репозитории таблиц хранилища
func tablesOf(store *postgres.Store) service.Tables {
	return service.Tables{
		Users:      store.Users,
		Cards:      store.Cards,
		Addresses:  store.Addresses,
		Categories: store.Categories,
		Products:   store.Products,
		Colors:     store.Colors,
		Sizes:      store.Sizes,
		Images:     store.Images,
		Ratings:    store.Ratings,
		Comments:   store.Comments,
		Likes:      store.Likes,
		Carts:      store.Carts,
		CartItems:  store.CartItems,
		Orders:     store.Orders,
		PromoCodes: store.PromoCodes,
	}
}
