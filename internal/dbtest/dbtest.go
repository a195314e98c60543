// Package dbtest opens throwaway SQLite databases with the full schema for
// tests.
package dbtest

import (
	"fmt"
	"testing"

	"brickshot/database"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/users"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database that lives until the test
// ends. The pool is pinned to one connection so every query sees the same
// memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// User inserts a local account and returns it.
func User(t testing.TB, db *gorm.DB, name string) users.User {
	t.Helper()
	u := users.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		AuthProvider: users.ProviderLocal,
		Role:         "user",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Caller is the access caller for u.
func Caller(u users.User) access.Caller {
	return access.Caller{UserID: u.ID, Role: u.Role}
}
