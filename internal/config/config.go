package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Upload   UploadConfig
	Query    QueryConfig
	Log      LogConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Events   EventsConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type CORSConfig struct {
	Origins          []string
	AllowCredentials bool
	AllowMethods     []string
	AllowHeaders     []string
}

type UploadConfig struct {
	MaxSizeMB         int
	MaxRows           int
	AllowedExtensions []string
}

type QueryConfig struct {
	DefaultK int
	MaxK     int
}

type LogConfig struct {
	Level string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	NearestCacheTTL time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type EventsConfig struct {
	Enabled bool
	Stream  string
}

// WorkerConfig - воркер аудита событий набора (cmd/worker)
type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
	MaxRetries    int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("API_ENV", "development")

	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:8000")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("CORS_ALLOW_METHODS", "*")
	v.SetDefault("CORS_ALLOW_HEADERS", "*")

	v.SetDefault("MAX_UPLOAD_SIZE_MB", 10)
	v.SetDefault("MAX_UPLOAD_ROWS", 1000000)
	v.SetDefault("ALLOWED_EXTENSIONS", ".csv")

	v.SetDefault("DEFAULT_K_NEAREST", 10)
	v.SetDefault("MAX_K_NEAREST", 50)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NEAREST_CACHE_TTL", 60)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("EVENTS_STREAM", "stream:poi:dataset")

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "poi-audit")
	v.SetDefault("WORKER_BATCH_SIZE", 20)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
}

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - как Load, но с явным путём к env-файлу
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		CORS: CORSConfig{
			Origins:          parseList(v.GetString("CORS_ORIGINS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			AllowMethods:     parseList(v.GetString("CORS_ALLOW_METHODS")),
			AllowHeaders:     parseList(v.GetString("CORS_ALLOW_HEADERS")),
		},
		Upload: UploadConfig{
			MaxSizeMB:         v.GetInt("MAX_UPLOAD_SIZE_MB"),
			MaxRows:           v.GetInt("MAX_UPLOAD_ROWS"),
			AllowedExtensions: parseList(v.GetString("ALLOWED_EXTENSIONS")),
		},
		Query: QueryConfig{
			DefaultK: v.GetInt("DEFAULT_K_NEAREST"),
			MaxK:     v.GetInt("MAX_K_NEAREST"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			NearestCacheTTL: time.Duration(v.GetInt("NEAREST_CACHE_TTL")) * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Events: EventsConfig{
			Enabled: v.GetBool("EVENTS_ENABLED"),
			Stream:  v.GetString("EVENTS_STREAM"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Query.DefaultK < 1 || c.Query.MaxK < 1 {
		return fmt.Errorf("DEFAULT_K_NEAREST and MAX_K_NEAREST must be positive")
	}
	if c.Query.DefaultK > c.Query.MaxK {
		return fmt.Errorf("DEFAULT_K_NEAREST (%d) must not exceed MAX_K_NEAREST (%d)", c.Query.DefaultK, c.Query.MaxK)
	}
	if c.Upload.MaxSizeMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive")
	}
	if c.Events.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("EVENTS_ENABLED requires REDIS_ENABLED")
	}
	if c.Worker.Enabled && c.Worker.BatchSize < 1 {
		return fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения в формате key=value для драйвера pgx
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// MaxUploadBytes - лимит размера загружаемого файла в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

// IsProduction сообщает, запущен ли сервис в production окружении
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
