package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/models/chat"
)

// Connect opens the postgres pool and verifies it with a ping.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("database connected")
	return db, nil
}

// Migrate creates the chat schema and auto-migrates every model.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS chat`).Error; err != nil {
		return fmt.Errorf("create chat schema: %w", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("create uuid extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ApprovalToken{},
		&models.Profile{},
		&models.Notification{},
		&models.JobOpportunity{},
		&models.JobSeekerRequest{},
		&models.SearchHistory{},
		&models.EmailOutbox{},
		&chat.Message{},
		&chat.MessageReaction{},
		&chat.TypingIndicator{},
	)
}
