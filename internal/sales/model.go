//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sales generates the synthetic grocery sales dataset and its star
// schema, and persists both to a relational store.
package sales

// Product is a catalogue entry.
type Product struct {
	ProductID int
	SKU       string
	Name      string
	Category  string
	Price     float64
}

// Customer is a synthetic shopper profile.
type Customer struct {
	CustomerID int
	Name       string
	Username   string
	Email      string
	Birthdate  string
	Address    string
	Phone      string
}

// Store is a physical shop location.
type Store struct {
	StoreID int
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Region  string
}

// Transaction is one checkout by one customer.
type Transaction struct {
	TransactionID int
	CustomerID    int

	// Datetime is a naive ISO-8601 timestamp, YYYY-MM-DDTHH:MM:SS.
	Datetime string

	// NumItems is the sum of line quantities.
	NumItems int

	// Total is the rounded sum of line totals.
	Total float64

	// Items summarises the lines as "product_id:quantity" joined by "|".
	Items string
}

// OrderItem is one product line of a transaction. UnitPrice is a snapshot
// of the product price at generation time.
type OrderItem struct {
	TransactionID int
	ProductID     int
	Quantity      int
	UnitPrice     float64
	LineTotal     float64
}

// DimDate is one row of the date dimension.
type DimDate struct {
	DateKey string
	DateISO string
	Year    int
	Month   int
	Day     int
	Weekday int
}

// FactSale is one row of the sales fact table, one per order item.
type FactSale struct {
	TransactionID int
	DateKey       string
	CustomerKey   int
	ProductKey    int
	StoreKey      int
	Quantity      int
	UnitPrice     float64
	LineTotal     float64
}

// Dataset is the normalized transactional data.
type Dataset struct {
	Products     []Product
	Customers    []Customer
	Stores       []Store
	Transactions []Transaction
	OrderItems   []OrderItem
}

// Star holds the star-schema rows that are derived rather than copied.
// The product, customer and store dimensions are keyed copies of the
// Dataset entities and are produced at write time.
type Star struct {
	Dates []DimDate
	Facts []FactSale
}
