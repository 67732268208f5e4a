package testutils

import (
	"fmt"
	"testing"

	"github.com/civictech-tw/casework/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteDB opens a private in-memory database, migrates the schema and
// installs it as the package-global connection for the duration of the test.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The shared-cache in-memory database disappears with its last
	// connection; a single pooled connection keeps it alive and keeps
	// every query on the same database.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))
	db.InitWithGormDB(gormDB)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gormDB
}
