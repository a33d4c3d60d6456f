package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

// Config содержит все настройки приложения
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig - общие параметры сервиса
type AppConfig struct {
	Env            string `mapstructure:"env"`
	Version        string `mapstructure:"version"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
	SeedDemoData   bool   `mapstructure:"seed_demo_data"`
}

// HTTPConfig содержит настройки REST сервера
type HTTPConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PostgresConfig содержит настройки для PostgreSQL
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// DSN возвращает строку подключения в формате key=value для gorm
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode)
}

// URL возвращает строку подключения в формате postgres:// для миграций
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig содержит настройки для Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig управляет кэшированием каталога
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	CategoryTTL time.Duration `mapstructure:"category_ttl"`
	ProductTTL  time.Duration `mapstructure:"product_ttl"`
}

// GRPCConfig содержит настройки для gRPC сервера
type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

type HealthConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, "development")
}

// ConfigPath возвращает путь к файлу конфигурации из флага --config
// или переменной окружения; пустая строка означает поиск по умолчанию
func ConfigPath(args []string) string {
	cmdLine := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	path := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok && env != "" {
		return env
	}
	return *path
}

// LoadConfig загружает настройки из файла или переменных окружения.
// Перед чтением подхватывает .env, если он есть.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	// Значения по умолчанию
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Если файл конфигурации не найден, используем переменные окружения
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Проверяем наличие переменных окружения и переопределяем значения конфигурации
	loadFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.migrate_on_start", false)
	v.SetDefault("app.seed_demo_data", false)

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.mode", "release")
	v.SetDefault("http.allowed_origins", []string{"*"})

	// PostgreSQL defaults
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.username", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "storefront")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("postgres.slow_threshold", time.Second)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.category_ttl", 10*time.Minute)
	v.SetDefault("cache.product_ttl", 5*time.Minute)

	// gRPC defaults
	v.SetDefault("grpc.port", 50051)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("health.port", 8081)

	v.SetDefault("log.level", "info")
}

func loadFromEnv(v *viper.Viper) {
	setString(v, "app.env", "APP_ENV")
	setString(v, "log.level", "LOG_LEVEL")
	setString(v, "http.mode", "GIN_MODE")

	// PostgreSQL from env
	setString(v, "postgres.host", "DB_HOST")
	setInt(v, "postgres.port", "DB_PORT")
	setString(v, "postgres.username", "DB_USER")
	setString(v, "postgres.password", "DB_PASSWORD")
	setString(v, "postgres.dbname", "DB_NAME")
	setString(v, "postgres.sslmode", "DB_SSLMODE")

	// Redis from env
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisPort := "6379" // Default Redis port
		if port := os.Getenv("REDIS_PORT"); port != "" {
			redisPort = port
		}
		v.Set("redis.addr", redisHost+":"+redisPort)
	}
	setString(v, "redis.password", "REDIS_PASSWORD")

	setBool(v, "cache.enabled", "CACHE_ENABLED")
	setBool(v, "app.migrate_on_start", "MIGRATE_ON_START")
	setBool(v, "app.seed_demo_data", "SEED_DEMO_DATA")

	setInt(v, "http.port", "HTTP_PORT")
	setInt(v, "grpc.port", "GRPC_PORT")
	setInt(v, "metrics.port", "METRICS_PORT")
	setInt(v, "health.port", "HEALTH_PORT")
}

func setString(v *viper.Viper, key, env string) {
	if value := os.Getenv(env); value != "" {
		v.Set(key, value)
	}
}

func setInt(v *viper.Viper, key, env string) {
	if value := os.Getenv(env); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			v.Set(key, n)
		}
	}
}

func setBool(v *viper.Viper, key, env string) {
	if value := os.Getenv(env); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			v.Set(key, b)
		}
	}
}
