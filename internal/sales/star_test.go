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
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-salesagent/internal/datagen"
)

var starCounts = Counts{Products: 20, Customers: 30, Transactions: 150, Stores: 4}

func deriveStar(t *testing.T, seed uint64, opts StarOptions) (*Dataset, *Star) {
	t.Helper()
	g := NewGenerator(seed, testAnchor)
	ds, err := g.Generate(starCounts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	star, err := g.DeriveStar(ds, opts)
	if err != nil {
		t.Fatalf("DeriveStar failed: %v", err)
	}
	return ds, star
}

func TestDeriveDates(t *testing.T) {
	ds, star := deriveStar(t, 11, DefaultStarOptions())

	distinct := make(map[string]string)
	var order []string
	for _, tx := range ds.Transactions {
		key, _, _ := strings.Cut(tx.Datetime, "T")
		if _, ok := distinct[key]; !ok {
			distinct[key] = tx.Datetime
			order = append(order, key)
		}
	}

	if len(star.Dates) != len(distinct) {
		t.Fatalf("Expected %d dates, got %d", len(distinct), len(star.Dates))
	}

	for i, d := range star.Dates {
		if d.DateKey != order[i] {
			t.Errorf("Date %d: expected key %s, got %s", i, order[i], d.DateKey)
		}
		if d.DateISO != distinct[d.DateKey] {
			t.Errorf("Date %s: expected iso %s, got %s", d.DateKey, distinct[d.DateKey], d.DateISO)
		}
		parsed, err := time.Parse(time.DateOnly, d.DateKey)
		if err != nil {
			t.Fatalf("Bad date key %q: %v", d.DateKey, err)
		}
		if d.Year != parsed.Year() || d.Month != int(parsed.Month()) || d.Day != parsed.Day() {
			t.Errorf("Date %s: parts %d-%d-%d", d.DateKey, d.Year, d.Month, d.Day)
		}
		if d.Weekday < 0 || d.Weekday > 6 {
			t.Errorf("Date %s: weekday %d out of range", d.DateKey, d.Weekday)
		}
	}
}

func TestCalendarWeekday(t *testing.T) {
	_, star := deriveStar(t, 11, StarOptions{Weekday: WeekdayCalendar, CustomerKey: CustomerKeyTransaction})

	for _, d := range star.Dates {
		parsed, _ := time.Parse(time.DateOnly, d.DateKey)
		want := (int(parsed.Weekday()) + 6) % 7
		if d.Weekday != want {
			t.Errorf("Date %s (%s): weekday %d, want %d", d.DateKey, parsed.Weekday(), d.Weekday, want)
		}
	}
}

func TestDeriveFacts(t *testing.T) {
	tests := []struct {
		name string
		mode CustomerKeyMode
	}{
		{"transaction key", CustomerKeyTransaction},
		{"customer key", CustomerKeyCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, star := deriveStar(t, 23, StarOptions{Weekday: WeekdayRandom, CustomerKey: tt.mode})

			if len(star.Facts) != len(ds.OrderItems) {
				t.Fatalf("Expected %d facts, got %d", len(ds.OrderItems), len(star.Facts))
			}

			byID := make(map[int]Transaction)
			for _, tx := range ds.Transactions {
				byID[tx.TransactionID] = tx
			}
			dates := make(map[string]bool)
			for _, d := range star.Dates {
				dates[d.DateKey] = true
			}

			for i, f := range star.Facts {
				oi := ds.OrderItems[i]
				tx := byID[f.TransactionID]

				if f.TransactionID != oi.TransactionID || f.ProductKey != oi.ProductID ||
					f.Quantity != oi.Quantity || f.UnitPrice != oi.UnitPrice || f.LineTotal != oi.LineTotal {
					t.Errorf("Fact %d does not mirror its order item: %+v vs %+v", i, f, oi)
				}
				if !dates[f.DateKey] {
					t.Errorf("Fact %d references unknown date %s", i, f.DateKey)
				}
				if f.StoreKey < 1 || f.StoreKey > starCounts.Stores {
					t.Errorf("Fact %d references store %d", i, f.StoreKey)
				}

				want := tx.TransactionID
				if tt.mode == CustomerKeyCustomer {
					want = tx.CustomerID
				}
				if f.CustomerKey != want {
					t.Errorf("Fact %d customer key %d, want %d", i, f.CustomerKey, want)
				}
			}
		})
	}
}

func TestDeriveStarDeterministic(t *testing.T) {
	_, first := deriveStar(t, 8, DefaultStarOptions())
	_, second := deriveStar(t, 8, DefaultStarOptions())
	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed produced different star schemas")
	}
}

func TestDeriveStarNoStores(t *testing.T) {
	g := NewGenerator(2, testAnchor)
	ds, err := g.Generate(Counts{Products: 5, Customers: 5, Transactions: 3, Stores: 0})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := g.DeriveStar(ds, DefaultStarOptions()); !errors.Is(err, datagen.ErrSampleRange) {
		t.Errorf("Expected ErrSampleRange, got %v", err)
	}
}

func TestDeriveFactsSkipsUnknownTransactions(t *testing.T) {
	g := NewGenerator(2, testAnchor)
	ds := &Dataset{
		Stores:       []Store{{StoreID: 1}},
		Transactions: []Transaction{{TransactionID: 1, CustomerID: 4, Datetime: "2025-01-02T03:04:05"}},
		OrderItems: []OrderItem{
			{TransactionID: 1, ProductID: 1, Quantity: 1},
			{TransactionID: 9, ProductID: 2, Quantity: 1},
		},
	}

	star, err := g.DeriveStar(ds, DefaultStarOptions())
	if err != nil {
		t.Fatalf("DeriveStar failed: %v", err)
	}
	if len(star.Facts) != 1 || star.Facts[0].TransactionID != 1 {
		t.Errorf("Expected one fact for transaction 1, got %+v", star.Facts)
	}
}

func TestStarOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    StarOptions
		wantErr bool
	}{
		{"defaults", DefaultStarOptions(), false},
		{"calendar customer", StarOptions{Weekday: WeekdayCalendar, CustomerKey: CustomerKeyCustomer}, false},
		{"bad weekday", StarOptions{Weekday: "iso", CustomerKey: CustomerKeyCustomer}, true},
		{"bad customer key", StarOptions{Weekday: WeekdayRandom, CustomerKey: "email"}, true},
		{"empty", StarOptions{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
