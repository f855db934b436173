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
	"github.com/pgEdge/pgedge-salesagent/internal/db"
)

// Base tables.
var (
	productsTable = db.Table{
		Name: "products",
		Key:  "product_id",
		Columns: []db.Column{
			{Name: "product_id", Type: db.Integer},
			{Name: "sku", Type: db.Text},
			{Name: "name", Type: db.Text},
			{Name: "category", Type: db.Text},
			{Name: "price", Type: db.Real},
		},
	}

	customersTable = db.Table{
		Name: "customers",
		Key:  "customer_id",
		Columns: []db.Column{
			{Name: "customer_id", Type: db.Integer},
			{Name: "name", Type: db.Text},
			{Name: "username", Type: db.Text},
			{Name: "email", Type: db.Text},
			{Name: "birthdate", Type: db.Text},
			{Name: "address", Type: db.Text},
			{Name: "phone", Type: db.Text},
		},
	}

	transactionsTable = db.Table{
		Name: "transactions",
		Key:  "transaction_id",
		Columns: []db.Column{
			{Name: "transaction_id", Type: db.Integer},
			{Name: "customer_id", Type: db.Integer},
			{Name: "datetime", Type: db.Text},
			{Name: "num_items", Type: db.Integer},
			{Name: "total", Type: db.Real},
			{Name: "items", Type: db.Text},
		},
	}

	orderItemsTable = db.Table{
		Name:    "order_items",
		Key:     "id",
		AutoKey: true,
		Columns: []db.Column{
			{Name: "id", Type: db.Integer},
			{Name: "transaction_id", Type: db.Integer},
			{Name: "product_id", Type: db.Integer},
			{Name: "quantity", Type: db.Integer},
			{Name: "unit_price", Type: db.Real},
			{Name: "line_total", Type: db.Real},
		},
	}
)

// Star schema tables.
var (
	dimProductTable = db.Table{
		Name: "dim_product",
		Key:  "product_key",
		Columns: []db.Column{
			{Name: "product_key", Type: db.Integer},
			{Name: "product_id", Type: db.Integer},
			{Name: "sku", Type: db.Text},
			{Name: "name", Type: db.Text},
			{Name: "category", Type: db.Text},
			{Name: "price", Type: db.Real},
		},
	}

	dimCustomerTable = db.Table{
		Name: "dim_customer",
		Key:  "customer_key",
		Columns: []db.Column{
			{Name: "customer_key", Type: db.Integer},
			{Name: "customer_id", Type: db.Integer},
			{Name: "name", Type: db.Text},
			{Name: "username", Type: db.Text},
			{Name: "email", Type: db.Text},
			{Name: "birthdate", Type: db.Text},
			{Name: "address", Type: db.Text},
			{Name: "phone", Type: db.Text},
		},
	}

	dimStoreTable = db.Table{
		Name: "dim_store",
		Key:  "store_key",
		Columns: []db.Column{
			{Name: "store_key", Type: db.Integer},
			{Name: "store_id", Type: db.Integer},
			{Name: "name", Type: db.Text},
			{Name: "address", Type: db.Text},
			{Name: "city", Type: db.Text},
			{Name: "state", Type: db.Text},
			{Name: "zip", Type: db.Text},
			{Name: "region", Type: db.Text},
		},
	}

	dimDateTable = db.Table{
		Name: "dim_date",
		Key:  "date_key",
		Columns: []db.Column{
			{Name: "date_key", Type: db.Text},
			{Name: "date_iso", Type: db.Text},
			{Name: "year", Type: db.Integer},
			{Name: "month", Type: db.Integer},
			{Name: "day", Type: db.Integer},
			{Name: "weekday", Type: db.Integer},
		},
	}

	factSalesTable = db.Table{
		Name:    "fact_sales",
		Key:     "sale_id",
		AutoKey: true,
		Columns: []db.Column{
			{Name: "sale_id", Type: db.Integer},
			{Name: "transaction_id", Type: db.Integer},
			{Name: "date_key", Type: db.Text},
			{Name: "customer_key", Type: db.Integer},
			{Name: "product_key", Type: db.Integer},
			{Name: "store_key", Type: db.Integer},
			{Name: "quantity", Type: db.Integer},
			{Name: "unit_price", Type: db.Real},
			{Name: "line_total", Type: db.Real},
		},
	}
)

// Tables lists every dataset table in creation and write order.
var Tables = []db.Table{
	productsTable,
	customersTable,
	transactionsTable,
	orderItemsTable,
	dimProductTable,
	dimCustomerTable,
	dimStoreTable,
	dimDateTable,
	factSalesTable,
}

// TableNames returns the names of Tables.
func TableNames() []string {
	names := make([]string, len(Tables))
	for i, t := range Tables {
		names[i] = t.Name
	}
	return names
}
