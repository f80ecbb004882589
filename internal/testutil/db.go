package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/thenoetrevino/listboard/internal/database"
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// insertRecord writes a raw board record, bypassing the realtime store
func insertRecord(t *testing.T, db *sql.DB, uid types.UserID, collection, id string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to encode %s/%s: %v", collection, id, err)
	}
	_, err = db.ExecContext(context.Background(),
		"INSERT INTO records (user_id, collection, id, data) VALUES (?, ?, ?, ?)",
		string(uid), collection, id, string(data))
	if err != nil {
		t.Fatalf("Failed to insert %s/%s: %v", collection, id, err)
	}
}

// CreateTestColumn inserts a column record and returns it
func CreateTestColumn(t *testing.T, db *sql.DB, uid types.UserID, id, title string, order int) models.Column {
	t.Helper()
	col := models.Column{ID: types.ColumnID(id), Title: title, Order: order}
	insertRecord(t, db, uid, "columns", id, col)
	return col
}

// CreateTestTask inserts a task record and returns it
func CreateTestTask(t *testing.T, db *sql.DB, uid types.UserID, id string, columnID types.ColumnID, content string, order int) models.Task {
	t.Helper()
	task := models.Task{ID: types.TaskID(id), ColumnID: columnID, Content: content, Order: order}
	insertRecord(t, db, uid, "tasks", id, task)
	return task
}

// CountRecords returns how many records a user has in a collection
func CountRecords(t *testing.T, db *sql.DB, uid types.UserID, collection string) int {
	t.Helper()

	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM records WHERE user_id = ? AND collection = ?",
		string(uid), collection).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", collection, err)
	}
	return n
}
