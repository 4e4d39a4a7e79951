package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dukerupert/starchart/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// setupFileDB opens a database on disk so that several connections share
// it, which :memory: cannot do.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "starchart.db"))
	if err != nil {
		t.Fatalf("open file db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestChild(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	c, err := NewChildStore(db).Create(ChildInput{Name: name, Color: "#FFD700", HomeworkRequired: 4, HomeworkTotalDays: 5})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	return c.ID
}

func createTestTask(t *testing.T, db *sql.DB, name string, stars int) int64 {
	t.Helper()
	task, err := NewTaskStore(db).Create(name, stars, nil, 0)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task.ID
}
