package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getEnvVar(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Connect opens the Postgres connection pool from environment configuration.
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			getEnvVar("DB_HOST", "localhost"),
			getEnvVar("DB_PORT", "5432"),
			getEnvVar("DB_USER", "plantgarden"),
			getEnvVar("DB_PASSWORD", ""),
			getEnvVar("DB_NAME", "plantgarden"),
			getEnvVar("DB_SSLMODE", "disable"),
			getEnvVar("TZ", "Local"),
		)
	}

	logLevel := logger.Warn
	if getEnvVar("DB_DEBUG", "false") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Printf("🗄️ Database connection established")
	return db, nil
}
