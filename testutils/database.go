package testutils

import (
	"fmt"
	"testing"

	"autoinfo-cms/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// The database disappears when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := config.InitDB(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          dsn,
		LogLevel:     "silent",
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = config.CloseDB(db)
	})
	return db
}
