package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/skillmatch-backend/internal/data/db"
)

var sqliteSeq atomic.Int64

// SQLiteDB builds a throwaway in-memory database for service-level tests that
// exercise repo behavior without a Postgres instance. Each call gets its own
// named shared-cache database so the pool's connections all see the same
// schema while tests stay isolated from each other.
func SQLiteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", sqliteSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("unwrap sqlite: %v", err)
	}
	// Keep one open connection for the test's lifetime so the in-memory
	// database is not dropped between pooled connections.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("automigrate sqlite: %v", err)
	}
	return gdb
}
