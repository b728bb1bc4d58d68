package integration

import (
	"fmt"
	"os"
	"testing"

	"gorm.io/gorm"

	"parishlink/internal/auth"
	"parishlink/internal/config"
	"parishlink/internal/database"
	"parishlink/internal/logger"
)

var testDB *gorm.DB

// TestMain connects once and migrates. Without DATABASE_URL the whole
// package is skipped, so unit test runs stay database-free.
func TestMain(m *testing.M) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	config.LoadConfig()
	logger.Init("test")
	auth.Configure(config.GetConfig().JWT.Secret, config.GetConfig().JWT.TTL)

	db, err := database.Connect(dsn)
	if err != nil {
		fmt.Printf("failed to connect test database: %v\n", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		fmt.Printf("failed to migrate test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	os.Exit(m.Run())
}
