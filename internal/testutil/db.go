// Package testutil provides fixtures shared by the package tests: entity
// builders, an in-memory store and an in-memory SQLite database.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteDB opens a private in-memory SQLite database with the full
// analytics schema. The database is closed when the test ends.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps concurrent test queries on one database handle
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "failed to migrate sqlite schema")
	return db
}

// Seed inserts every record of the dataset into db
func Seed(t *testing.T, db *gorm.DB, d *Dataset) {
	t.Helper()

	create := func(n int, value interface{}) {
		if n == 0 {
			return
		}
		require.NoError(t, db.Create(value).Error)
	}
	create(len(d.Companies), &d.Companies)
	create(len(d.Users), &d.Users)
	create(len(d.Contacts), &d.Contacts)
	create(len(d.Branches), &d.Branches)
	create(len(d.Opportunities), &d.Opportunities)
	create(len(d.StageHistory), &d.StageHistory)
	create(len(d.Proposals), &d.Proposals)
	create(len(d.Activities), &d.Activities)
	create(len(d.Notes), &d.Notes)
	create(len(d.Projects), &d.Projects)
	create(len(d.Invoices), &d.Invoices)
	create(len(d.Tickets), &d.Tickets)
}
