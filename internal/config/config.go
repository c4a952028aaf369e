package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort  string
	Debug       bool
	CORSOrigins []string
	StaticDir   string

	// Database：postgres:// 开头使用 PostgreSQL，否则视为 SQLite 文件路径
	DatabaseURL string

	// Google Places API
	PlacesAPIKey   string
	PlacesBaseURL  string
	PlacesLanguage string
	PlacesTimeout  time.Duration

	// 搜索
	DefaultRadius     int
	MinRadius         int
	MaxRadius         int
	MaxResults        int
	DetailConcurrency int
	HistoryLimit      int
}

func Load() (*Config, error) {
	// 尝试加载 .env 文件（可选）
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:        getEnv("PORT", "8000"),
		Debug:             getEnvBool("DEBUG", false),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"*"}),
		StaticDir:         getEnv("STATIC_DIR", "frontend"),
		DatabaseURL:       getEnv("DATABASE_URL", "atlas.db"),
		PlacesAPIKey:      getEnv("GOOGLE_MAPS_API_KEY", ""),
		PlacesBaseURL:     getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api"),
		PlacesLanguage:    getEnv("PLACES_LANGUAGE", "pt-BR"),
		PlacesTimeout:     getEnvDuration("PLACES_TIMEOUT", 10*time.Second),
		DefaultRadius:     getEnvInt("DEFAULT_RADIUS", 5000),
		MinRadius:         getEnvInt("MIN_RADIUS", 100),
		MaxRadius:         getEnvInt("MAX_RADIUS", 50000),
		MaxResults:        getEnvInt("MAX_RESULTS", 20),
		DetailConcurrency: getEnvInt("DETAIL_CONCURRENCY", 5),
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 启动时校验配置
// API Key 缺失不算错误：服务照常启动，搜索返回 503
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must not be empty"))
	}
	if c.MinRadius <= 0 {
		errs = append(errs, fmt.Errorf("MIN_RADIUS must be positive, got %d", c.MinRadius))
	}
	if c.MaxRadius < c.MinRadius {
		errs = append(errs, fmt.Errorf("MAX_RADIUS (%d) must be >= MIN_RADIUS (%d)", c.MaxRadius, c.MinRadius))
	}
	if c.DefaultRadius < c.MinRadius || c.DefaultRadius > c.MaxRadius {
		errs = append(errs, fmt.Errorf("DEFAULT_RADIUS (%d) must be within [%d, %d]", c.DefaultRadius, c.MinRadius, c.MaxRadius))
	}
	if c.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("MAX_RESULTS must be positive, got %d", c.MaxResults))
	}
	if c.DetailConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("DETAIL_CONCURRENCY must be positive, got %d", c.DetailConcurrency))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit))
	}
	if c.PlacesTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PLACES_TIMEOUT must be positive, got %s", c.PlacesTimeout))
	}

	return errors.Join(errs...)
}

// UsePostgres 是否使用 PostgreSQL 存储
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
