// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cfkpezinok/club-backend/internal/config"
	"github.com/cfkpezinok/club-backend/internal/database"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// It has a single connection, so statements never run concurrently.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return open(t, dsn, 1)
}

// NewConcurrentDB returns a migrated file-backed SQLite database in WAL mode
// with several connections, for tests that need statements from different
// goroutines to interleave. Writers wait on each other through busy_timeout.
func NewConcurrentDB(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "club.db")
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	return open(t, dsn, 8)
}

func open(t testing.TB, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Config returns a configuration suitable for tests.
func Config() *config.Config {
	return &config.Config{
		StorageTimeout:         5 * time.Second,
		JWTSecret:              "test-jwt-secret",
		JWTAccessExpiry:        15 * time.Minute,
		JWTRefreshExpiry:       24 * time.Hour,
		TrainerSessionSecret:   "test-session-secret",
		TrainerSessionTTL:      7 * 24 * time.Hour,
		TrainerInitialPassword: "Cajla123",
		AdminEmails:            "admin@club.test",
		AdminToken:             "test-admin-token",
		CORSOrigins:            "*",
		AppEnv:                 "test",
		LogRetentionDays:       30,
	}
}
