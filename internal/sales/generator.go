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
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-salesagent/internal/datagen"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// DatetimeLayout is the naive ISO-8601 layout of Transaction.Datetime.
const DatetimeLayout = "2006-01-02T15:04:05"

// Reference data
var categories = []string{"Produce", "Dairy", "Bakery", "Meat", "Seafood",
	"Frozen", "Beverages", "Snacks", "Household", "Personal Care"}
var regions = []string{"North", "South", "East", "West", "Central"}

// Distinct products per transaction and units per line, with their weights.
var (
	basketSizes       = []int{1, 2, 3, 4, 5}
	basketSizeWeights = []int{40, 30, 15, 10, 5}
	quantities        = []int{1, 2, 3}
	quantityWeights   = []int{80, 15, 5}
)

const (
	minPrice = 0.50
	maxPrice = 50.00
)

// Counts sets how many of each entity to generate.
type Counts struct {
	Products     int
	Customers    int
	Transactions int
	Stores       int
}

// DefaultCounts returns the stock demo cardinalities.
func DefaultCounts() Counts {
	return Counts{
		Products:     100,
		Customers:    200,
		Transactions: 1000,
		Stores:       10,
	}
}

// Generator produces the dataset from one seed. Profile-like fields come
// from the synthetic source; every other draw uses the general random
// source. A Generator is single-use and not safe for concurrent use.
type Generator struct {
	faker  *datagen.Faker
	rng    *rand.Rand
	anchor time.Time
}

// NewGenerator creates a generator. Transaction timestamps fall in the
// year that ends at anchor.
func NewGenerator(seed uint64, anchor time.Time) *Generator {
	return &Generator{
		faker:  datagen.NewFakerWithSeed(seed),
		rng:    datagen.NewRand(seed),
		anchor: anchor.UTC(),
	}
}

// Generate builds the full normalized dataset. Entities are generated in
// a fixed order so identical seeds give identical output.
func (g *Generator) Generate(counts Counts) (*Dataset, error) {
	logging.Info().
		Int("products", counts.Products).
		Int("customers", counts.Customers).
		Int("transactions", counts.Transactions).
		Int("stores", counts.Stores).
		Msg("Generating sales data")

	products, err := g.Products(counts.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to generate products: %w", err)
	}

	customers := g.Customers(counts.Customers)

	transactions, items, err := g.Transactions(customers, products, counts.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transactions: %w", err)
	}

	stores := g.Stores(counts.Stores)

	return &Dataset{
		Products:     products,
		Customers:    customers,
		Stores:       stores,
		Transactions: transactions,
		OrderItems:   items,
	}, nil
}

// Products generates n products with ids 1..n.
func (g *Generator) Products(n int) ([]Product, error) {
	products := make([]Product, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		word, err := g.faker.UniqueWord()
		if err != nil {
			return nil, fmt.Errorf("product %d name: %w", i, err)
		}
		category, err := datagen.Choose(g.rng, categories)
		if err != nil {
			return nil, err
		}

		products = append(products, Product{
			ProductID: i,
			SKU:       fmt.Sprintf("SKU%05d", i),
			Name:      datagen.Capitalize(word),
			Category:  category,
			Price:     datagen.RoundCents(datagen.Uniform(g.rng, minPrice, maxPrice)),
		})
	}
	return products, nil
}

// Customers generates n customers with ids 1..n.
func (g *Generator) Customers(n int) []Customer {
	customers := make([]Customer, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		customers = append(customers, Customer{
			CustomerID: i,
			Name:       g.faker.Name(),
			Username:   g.faker.Username(),
			Email:      g.faker.Email(),
			Birthdate:  g.faker.Birthdate(),
			Address:    g.faker.AddressLine(),
			Phone:      g.faker.Phone(),
		})
	}
	return customers
}

// Stores generates n stores with ids 1..n.
func (g *Generator) Stores(n int) []Store {
	stores := make([]Store, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		s := Store{
			StoreID: i,
			Name:    g.faker.Company() + " Grocery",
			Address: g.faker.AddressLine(),
			City:    g.faker.City(),
			State:   g.faker.State(),
			Zip:     g.faker.Zip(),
		}
		// regions is never empty
		s.Region, _ = datagen.Choose(g.rng, regions)
		stores = append(stores, s)
	}
	return stores
}

// Transactions generates n transactions and their order items, in
// transaction id order. Each transaction holds distinct products.
func (g *Generator) Transactions(customers []Customer, products []Product, n int) ([]Transaction, []OrderItem, error) {
	transactions := make([]Transaction, 0, max(n, 0))
	var items []OrderItem

	start := g.anchor.AddDate(-1, 0, 0)

	for i := 1; i <= n; i++ {
		customer, err := datagen.Choose(g.rng, customers)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d customer: %w", i, err)
		}
		k, err := datagen.ChooseWeighted(g.rng, basketSizes, basketSizeWeights)
		if err != nil {
			return nil, nil, err
		}
		chosen, err := datagen.Sample(g.rng, products, k)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %d products: %w", i, err)
		}

		var total float64
		numItems := 0
		summary := make([]string, 0, len(chosen))
		for _, p := range chosen {
			qty, err := datagen.ChooseWeighted(g.rng, quantities, quantityWeights)
			if err != nil {
				return nil, nil, err
			}
			lineTotal := datagen.RoundCents(p.Price * float64(qty))
			total += lineTotal
			numItems += qty

			items = append(items, OrderItem{
				TransactionID: i,
				ProductID:     p.ProductID,
				Quantity:      qty,
				UnitPrice:     p.Price,
				LineTotal:     lineTotal,
			})
			summary = append(summary, strconv.Itoa(p.ProductID)+":"+strconv.Itoa(qty))
		}

		transactions = append(transactions, Transaction{
			TransactionID: i,
			CustomerID:    customer.CustomerID,
			Datetime:      g.faker.DateRange(start, g.anchor).UTC().Format(DatetimeLayout),
			NumItems:      numItems,
			Total:         datagen.RoundCents(total),
			Items:         strings.Join(summary, "|"),
		})
	}

	logging.Debug().
		Int("transactions", len(transactions)).
		Int("order_items", len(items)).
		Msg("Generated transactions")

	return transactions, items, nil
}
