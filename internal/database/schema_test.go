package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_products_table.sql",
		"00002_create_customers_table.sql",
		"00003_create_orders_table.sql",
		"00004_create_order_items_table.sql",
		"00005_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"products":    "00001_create_products_table.sql",
		"customers":   "00002_create_customers_table.sql",
		"orders":      "00003_create_orders_table.sql",
		"order_items": "00004_create_order_items_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		contentStr := readMigration(t, migrationFile)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestProductsTableHasStockAndPriceConstraints(t *testing.T) {
	contentStr := readMigration(t, "00001_create_products_table.sql")

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"name VARCHAR",
		"description TEXT",
		"price NUMERIC",
		"stock INTEGER",
		"CHECK (price > 0)",
		"CHECK (stock >= 0)",
		"created_at TIMESTAMP",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required definition: %s", column)
		}
	}
}

func TestCustomersTableHasUniqueEmail(t *testing.T) {
	contentStr := readMigration(t, "00002_create_customers_table.sql")

	if !strings.Contains(contentStr, "CONSTRAINT customers_email_key UNIQUE (email)") {
		t.Error("Customers table missing unique constraint on email")
	}
}

func TestOrdersTableHasNoStatusCheck(t *testing.T) {
	contentStr := readMigration(t, "00003_create_orders_table.sql")

	// The status set is configuration, a CHECK would pin it in the schema
	if strings.Contains(contentStr, "CHECK (status") {
		t.Error("Orders table must not constrain status values")
	}
	if !strings.Contains(contentStr, "REFERENCES customers(id)") {
		t.Error("Orders table missing foreign key to customers")
	}
}

func TestOrderItemsCascadeWithOrder(t *testing.T) {
	contentStr := readMigration(t, "00004_create_order_items_table.sql")

	if !strings.Contains(contentStr, "REFERENCES orders(id) ON DELETE CASCADE") {
		t.Error("Order items must be removed together with their order")
	}
	if !strings.Contains(contentStr, "REFERENCES products(id) ON DELETE RESTRICT") {
		t.Error("Order items must keep referenced products alive")
	}
	if !strings.Contains(contentStr, "CHECK (quantity > 0)") {
		t.Error("Order items missing positive quantity constraint")
	}
}
