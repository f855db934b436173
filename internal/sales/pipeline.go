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
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
	"github.com/pgEdge/pgedge-salesagent/pkg/version"
)

// Options configures one generate-and-persist run.
type Options struct {
	// Seed feeds both the synthetic source and the random source.
	Seed uint64

	Counts Counts

	// Anchor ends the one-year transaction window. The zero value means
	// the current time, which makes timestamps differ between runs.
	Anchor time.Time

	Mode WriteMode
	Star StarOptions
}

// DefaultOptions returns the stock demo configuration.
func DefaultOptions() Options {
	return Options{
		Counts: DefaultCounts(),
		Mode:   WriteAppend,
		Star:   DefaultStarOptions(),
	}
}

// Validate checks counts and modes.
func (o Options) Validate() error {
	c := o.Counts
	if c.Products < 0 || c.Customers < 0 || c.Transactions < 0 || c.Stores < 0 {
		return fmt.Errorf("entity counts must be non-negative: %+v", c)
	}
	if err := o.Mode.Validate(); err != nil {
		return err
	}
	return o.Star.Validate()
}

// Summary reports what a run wrote.
type Summary struct {
	RunID        string
	Products     int
	Customers    int
	Stores       int
	Transactions int
	OrderItems   int
	Dates        int
	Facts        int
}

// Build generates the dataset and its star schema without touching a store.
func Build(opts Options) (*Dataset, *Star, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}

	gen := NewGenerator(opts.Seed, anchor)
	ds, err := gen.Generate(opts.Counts)
	if err != nil {
		return nil, nil, err
	}

	star, err := gen.DeriveStar(ds, opts.Star)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive star schema: %w", err)
	}
	return ds, star, nil
}

// Seed generates the dataset and writes it to store in one transaction.
func Seed(ctx context.Context, store *db.Store, opts Options) (Summary, error) {
	ds, star, err := Build(opts)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:        uuid.NewString(),
		Products:     len(ds.Products),
		Customers:    len(ds.Customers),
		Stores:       len(ds.Stores),
		Transactions: len(ds.Transactions),
		OrderItems:   len(ds.OrderItems),
		Dates:        len(star.Dates),
		Facts:        len(star.Facts),
	}

	if err := Write(ctx, store, ds, star, opts.Mode, runMetadata(opts, summary)); err != nil {
		return Summary{}, fmt.Errorf("failed to write dataset: %w", err)
	}

	logging.Info().
		Str("store", store.Target).
		Str("run_id", summary.RunID).
		Int("transactions", summary.Transactions).
		Int("order_items", summary.OrderItems).
		Int("dates", summary.Dates).
		Msg("Seeded database")

	return summary, nil
}

// EnsureSeeded seeds the store unless a previous seed completed. A failed
// seed is logged and swallowed so callers can continue without data.
func EnsureSeeded(ctx context.Context, store *db.Store, opts Options) bool {
	seeded, err := db.IsSeeded(ctx, store)
	if err != nil {
		logging.Warn().Err(err).Str("store", store.Target).Msg("Could not check seed state")
		return false
	}
	if seeded {
		logging.Debug().Str("store", store.Target).Msg("Store already seeded")
		return true
	}

	logging.Info().Str("store", store.Target).Msg("Seeding database")
	if _, err := Seed(ctx, store, opts); err != nil {
		logging.Warn().Err(err).Str("store", store.Target).Msg("Failed to seed database")
		return false
	}
	return true
}

func runMetadata(opts Options, s Summary) map[string]string {
	return map[string]string{
		"run_id":            s.RunID,
		"version":           version.Short(),
		"seed":              strconv.FormatUint(opts.Seed, 10),
		"mode":              string(opts.Mode),
		"weekday_mode":      string(opts.Star.Weekday),
		"customer_key_mode": string(opts.Star.CustomerKey),
		"products":          strconv.Itoa(s.Products),
		"customers":         strconv.Itoa(s.Customers),
		"stores":            strconv.Itoa(s.Stores),
		"transactions":      strconv.Itoa(s.Transactions),
		db.SeededAtKey:      time.Now().UTC().Format(time.RFC3339),
	}
}
