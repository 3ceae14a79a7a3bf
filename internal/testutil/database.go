package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"inkwell/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/inkwell_test?parseTime=true&multiStatements=true&clientFoundRows=true"

// SetupTestDB connects to the MySQL test database named by TEST_DATABASE_DSN
// and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables brings the schema up to date with the embedded migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

// CleanupTestDB empties every table written by tests and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"IntakeSubmissions", "EmailLogs", "WebhookEvents", "CartItems", "Orders", "Services"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
	if _, err := db.Exec(`UPDATE PromoCodes SET usedCount = 0`); err != nil {
		t.Logf("failed to reset promo codes: %v", err)
	}

	db.Close()
}

// InsertOrder writes a pending order and returns its id.
func InsertOrder(t *testing.T, db *sql.DB, paypalOrderID string) uint {
	result, err := db.Exec(`
		INSERT INTO Orders (packageName, amount, currency, status, customerName, customerEmail, customerPhone, paypalOrderId)
		VALUES ('Professional Resume', 185.00, 'AUD', 'pending', 'Jane Doe', 'jane@example.com', '+61 400 000 000', ?)`,
		paypalOrderID)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read order id: %v", err)
	}
	return uint(id)
}
