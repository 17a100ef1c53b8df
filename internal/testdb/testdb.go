// Package testdb provides isolated in-memory databases for tests. Each call
// opens a fresh sqlite database so tests never observe each other's rows.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

var counter atomic.Int64

// New opens an isolated in-memory database, migrates the schema, and installs
// it as the process connection for the duration of the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:taskhub_test_%d?mode=memory&cache=shared", counter.Add(1))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}, &models.Note{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })

	return gdb
}
