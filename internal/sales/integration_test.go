//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration

// Run with: go test -tags=integration ./internal/sales/...
// Set PGEDGE_TEST_CONN to override the connection string.

package sales

import (
	"context"
	"reflect"
	"testing"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/testutil"
)

func TestPostgresSeed(t *testing.T) {
	store := testutil.OpenPostgres(t, "seed")
	ctx := context.Background()

	opts := testOptions(WriteReplace)
	summary, err := Seed(ctx, store, opts)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	counts := tableCounts(t, store)
	if counts["fact_sales"] != int64(summary.Facts) {
		t.Errorf("Expected %d facts, got %d", summary.Facts, counts["fact_sales"])
	}

	if _, err := Seed(ctx, store, opts); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	if again := tableCounts(t, store); !reflect.DeepEqual(counts, again) {
		t.Errorf("Replace changed counts: %v then %v", counts, again)
	}

	seeded, err := db.IsSeeded(ctx, store)
	if err != nil || !seeded {
		t.Errorf("Expected store to be seeded, got %v (err %v)", seeded, err)
	}
}

func TestPostgresAppend(t *testing.T) {
	store := testutil.OpenPostgres(t, "append")
	ctx := context.Background()

	opts := testOptions(WriteAppend)
	for i := 0; i < 2; i++ {
		if _, err := Seed(ctx, store, opts); err != nil {
			t.Fatalf("Seed %d failed: %v", i+1, err)
		}
	}

	ds, _, err := Build(opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	counts := tableCounts(t, store)
	if counts["order_items"] != int64(2*len(ds.OrderItems)) {
		t.Errorf("Expected %d order items, got %d", 2*len(ds.OrderItems), counts["order_items"])
	}
	if counts["products"] != int64(len(ds.Products)) {
		t.Errorf("Expected %d products, got %d", len(ds.Products), counts["products"])
	}
}
