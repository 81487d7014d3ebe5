// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"log"
	"time"

	"taxchain/internal/config"
	"taxchain/internal/models"
	"taxchain/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// CacheService is the shared Redis-backed cache, nil when caching is disabled.
var CacheService *cache.CacheService

// DBConfig holds database connection pool configuration
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var dbConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// InitDB initializes the database connection.
// DB_DRIVER selects the backend: "postgres" (default) or "sqlite" for
// lightweight deployments. It sets up the connection pool, performs
// migrations, and initializes the cache service when enabled.
func InitDB() error {
	var err error

	switch config.GetEnv("DB_DRIVER", "postgres") {
	case "sqlite":
		DB, err = gorm.Open(sqlite.Open(config.GetEnv("DB_PATH", "taxchain.db")), &gorm.Config{})
	default:
		dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
			" user=" + config.GetEnv("DB_USER", "postgres") +
			" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
			" dbname=" + config.GetEnv("DB_NAME", "taxchain") +
			" port=" + config.GetEnv("DB_PORT", "5432") +
			" sslmode=disable"
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)

	if config.GetEnv("CACHE_ENABLED", "true") == "true" {
		redisCfg := &cache.RedisConfig{
			Host:     config.GetEnv("REDIS_HOST", "localhost"),
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		}
		redisClient := cache.NewRedisClient(redisCfg)
		CacheService = cache.NewCacheService(redisClient, 24*time.Hour)
	} else {
		log.Println("cache disabled, running without Redis")
	}

	return DB.AutoMigrate(
		&models.RiskAnalysis{},
		&models.LedgerTransaction{},
		&models.Conversation{},
		&models.ChatMessage{},
	)
}
