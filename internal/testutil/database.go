package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"costbook/internal/infrastructure/mysql"
)

// SetupTestDB connects to the local test database and skips the test when it
// is not reachable. Expects a MySQL instance on localhost:3306 with a
// database named 'costbook_test'.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/costbook_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations against the test database.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table in foreign-key order and closes the
// connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"product_materials",
		"product_job_work",
		"product_additional_costs",
		"stock_movements",
		"sales",
		"overheads",
		"products",
		"users",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SeedUser inserts a user row and returns its id. Products carry a user
// foreign key, so most fixtures need one.
func SeedUser(t *testing.T, db *sql.DB, email string) int64 {
	result, err := db.Exec(`INSERT INTO users (email, first_name, last_name) VALUES (?, 'Test', 'User')`, email)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get seeded user id: %v", err)
	}
	return id
}
