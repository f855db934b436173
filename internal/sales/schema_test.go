//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sales

import (
	"slices"
	"testing"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
)

func TestTableNames(t *testing.T) {
	want := []string{
		"products", "customers", "transactions", "order_items",
		"dim_product", "dim_customer", "dim_store", "dim_date", "fact_sales",
	}
	if got := TableNames(); !slices.Equal(got, want) {
		t.Errorf("TableNames() = %v, want %v", got, want)
	}
}

func TestSQLiteDDL(t *testing.T) {
	d := db.SQLiteDialect{}
	tests := []struct {
		table db.Table
		want  string
	}{
		{productsTable, "CREATE TABLE IF NOT EXISTS products (product_id INTEGER PRIMARY KEY, sku TEXT, name TEXT, category TEXT, price REAL)"},
		{customersTable, "CREATE TABLE IF NOT EXISTS customers (customer_id INTEGER PRIMARY KEY, name TEXT, username TEXT, email TEXT, birthdate TEXT, address TEXT, phone TEXT)"},
		{transactionsTable, "CREATE TABLE IF NOT EXISTS transactions (transaction_id INTEGER PRIMARY KEY, customer_id INTEGER, datetime TEXT, num_items INTEGER, total REAL, items TEXT)"},
		{orderItemsTable, "CREATE TABLE IF NOT EXISTS order_items (id INTEGER PRIMARY KEY AUTOINCREMENT, transaction_id INTEGER, product_id INTEGER, quantity INTEGER, unit_price REAL, line_total REAL)"},
		{dimDateTable, "CREATE TABLE IF NOT EXISTS dim_date (date_key TEXT PRIMARY KEY, date_iso TEXT, year INTEGER, month INTEGER, day INTEGER, weekday INTEGER)"},
		{factSalesTable, "CREATE TABLE IF NOT EXISTS fact_sales (sale_id INTEGER PRIMARY KEY AUTOINCREMENT, transaction_id INTEGER, date_key TEXT, customer_key INTEGER, product_key INTEGER, store_key INTEGER, quantity INTEGER, unit_price REAL, line_total REAL)"},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			if got := d.CreateTableSQL(tt.table); got != tt.want {
				t.Errorf("CreateTableSQL() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestAppendTablesOmitKey(t *testing.T) {
	d := db.SQLiteDialect{}
	want := "INSERT INTO fact_sales (transaction_id, date_key, customer_key, product_key, store_key, quantity, unit_price, line_total) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	if got := d.InsertSQL(factSalesTable); got != want {
		t.Errorf("InsertSQL() =\n%s\nwant\n%s", got, want)
	}
}
