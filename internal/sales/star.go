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
	"strings"
	"time"

	"github.com/pgEdge/pgedge-salesagent/internal/datagen"
)

// WeekdayMode selects how dim_date.weekday is filled.
type WeekdayMode string

const (
	// WeekdayRandom draws 0..6 from the seeded random source, independent
	// of the date. This matches datasets produced by earlier releases.
	WeekdayRandom WeekdayMode = "random"

	// WeekdayCalendar stores the real day of week, Monday=0 through Sunday=6.
	WeekdayCalendar WeekdayMode = "calendar"
)

// CustomerKeyMode selects what fact_sales.customer_key refers to.
type CustomerKeyMode string

const (
	// CustomerKeyTransaction stores the transaction id, as earlier
	// releases did. Existing consumers may depend on it.
	CustomerKeyTransaction CustomerKeyMode = "transaction"

	// CustomerKeyCustomer stores the id of the customer who made the
	// transaction.
	CustomerKeyCustomer CustomerKeyMode = "customer"
)

// StarOptions controls star-schema derivation.
type StarOptions struct {
	Weekday     WeekdayMode
	CustomerKey CustomerKeyMode
}

// DefaultStarOptions returns the options compatible with earlier releases.
func DefaultStarOptions() StarOptions {
	return StarOptions{
		Weekday:     WeekdayRandom,
		CustomerKey: CustomerKeyTransaction,
	}
}

// Validate checks that both modes are known.
func (o StarOptions) Validate() error {
	switch o.Weekday {
	case WeekdayRandom, WeekdayCalendar:
	default:
		return fmt.Errorf("unknown weekday mode: %q", o.Weekday)
	}
	switch o.CustomerKey {
	case CustomerKeyTransaction, CustomerKeyCustomer:
	default:
		return fmt.Errorf("unknown customer key mode: %q", o.CustomerKey)
	}
	return nil
}

// DeriveStar builds the date dimension and the fact rows from ds. It must
// run after Generate on the same Generator; it continues the same random
// stream.
func (g *Generator) DeriveStar(ds *Dataset, opts StarOptions) (*Star, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	dates, err := g.deriveDates(ds.Transactions, opts.Weekday)
	if err != nil {
		return nil, err
	}

	facts, err := g.deriveFacts(ds, opts.CustomerKey)
	if err != nil {
		return nil, err
	}

	return &Star{Dates: dates, Facts: facts}, nil
}

// deriveDates returns one row per distinct transaction date, in order of
// first appearance. date_iso keeps the first timestamp seen for the date.
func (g *Generator) deriveDates(transactions []Transaction, mode WeekdayMode) ([]DimDate, error) {
	seen := make(map[string]bool)
	var dates []DimDate

	for _, t := range transactions {
		key := dateKey(t.Datetime)
		if seen[key] {
			continue
		}
		seen[key] = true

		d, err := time.Parse(time.DateOnly, key)
		if err != nil {
			return nil, fmt.Errorf("transaction %d has malformed datetime %q: %w",
				t.TransactionID, t.Datetime, err)
		}

		var weekday int
		switch mode {
		case WeekdayCalendar:
			weekday = (int(d.Weekday()) + 6) % 7
		default:
			weekday = g.rng.IntN(7)
		}

		dates = append(dates, DimDate{
			DateKey: key,
			DateISO: t.Datetime,
			Year:    d.Year(),
			Month:   int(d.Month()),
			Day:     d.Day(),
			Weekday: weekday,
		})
	}
	return dates, nil
}

// deriveFacts emits one fact per order item. Each fact gets a store drawn
// uniformly at random; stores play no part in generating transactions.
func (g *Generator) deriveFacts(ds *Dataset, mode CustomerKeyMode) ([]FactSale, error) {
	byID := make(map[int]Transaction, len(ds.Transactions))
	for _, t := range ds.Transactions {
		byID[t.TransactionID] = t
	}

	facts := make([]FactSale, 0, len(ds.OrderItems))
	for _, item := range ds.OrderItems {
		t, ok := byID[item.TransactionID]
		if !ok {
			continue
		}

		store, err := datagen.Choose(g.rng, ds.Stores)
		if err != nil {
			return nil, fmt.Errorf("store for transaction %d: %w", item.TransactionID, err)
		}

		customerKey := t.TransactionID
		if mode == CustomerKeyCustomer {
			customerKey = t.CustomerID
		}

		facts = append(facts, FactSale{
			TransactionID: item.TransactionID,
			DateKey:       dateKey(t.Datetime),
			CustomerKey:   customerKey,
			ProductKey:    item.ProductID,
			StoreKey:      store.StoreID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LineTotal:     item.LineTotal,
		})
	}
	return facts, nil
}

func dateKey(datetime string) string {
	date, _, _ := strings.Cut(datetime, "T")
	return date
}
