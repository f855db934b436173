package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
	"github.com/pgEdge/pgedge-salesagent/internal/sales"
)

var (
	seedValue           uint64
	seedProducts        int
	seedCustomers       int
	seedTransactions    int
	seedStores          int
	seedMode            string
	seedAnchor          string
	seedWeekdayMode     string
	seedCustomerKeyMode string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the sales dataset and write it to the store",
	Long: `Generate the synthetic sales dataset and its star schema and write
them to the configured store in a single transaction. The same seed,
counts and anchor always produce the same data.

Write modes:
  append  - upsert keyed tables, append order lines and facts (default)
  replace - empty every dataset table first

Example:
  pgedge-salesagent seed --db ./data/sales.db --transactions 5000 --seed 42
  pgedge-salesagent seed --mode replace --anchor 2025-01-01`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0,
		"seed for the random and synthetic sources")
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of products")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers")
	seedCmd.Flags().IntVar(&seedTransactions, "transactions", 0,
		"number of transactions")
	seedCmd.Flags().IntVar(&seedStores, "stores", 0,
		"number of stores")
	seedCmd.Flags().StringVar(&seedMode, "mode", "",
		"write mode: append or replace")
	seedCmd.Flags().StringVar(&seedAnchor, "anchor", "",
		"end of the transaction window (RFC 3339 or YYYY-MM-DD; default: now)")
	seedCmd.Flags().StringVar(&seedWeekdayMode, "weekday-mode", "",
		"dim_date weekday: random or calendar")
	seedCmd.Flags().StringVar(&seedCustomerKeyMode, "customer-key-mode", "",
		"fact_sales customer_key: transaction or customer")
}

// applySeedFlags copies explicitly set flags over the loaded config, so
// zero counts given on the command line are honoured.
func applySeedFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed.Value = seedValue
	}
	if flags.Changed("products") {
		cfg.Seed.Products = seedProducts
	}
	if flags.Changed("customers") {
		cfg.Seed.Customers = seedCustomers
	}
	if flags.Changed("transactions") {
		cfg.Seed.Transactions = seedTransactions
	}
	if flags.Changed("stores") {
		cfg.Seed.Stores = seedStores
	}
	if seedMode != "" {
		cfg.Seed.Mode = seedMode
	}
	if seedAnchor != "" {
		cfg.Seed.Anchor = seedAnchor
	}
	if seedWeekdayMode != "" {
		cfg.Seed.WeekdayMode = seedWeekdayMode
	}
	if seedCustomerKeyMode != "" {
		cfg.Seed.CustomerKeyMode = seedCustomerKeyMode
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	applySeedFlags(cmd)

	if err := cfg.Validate(); err != nil {
		return err
	}
	opts, err := cfg.SeedOptions()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := db.Open(ctx, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	logging.Info().
		Uint64("seed", opts.Seed).
		Str("mode", string(opts.Mode)).
		Str("store", store.Target).
		Msg("Seeding database")

	summary, err := sales.Seed(ctx, store, opts)
	if err != nil {
		return err
	}

	cmd.Printf("Seeded %s: %d products, %d customers, %d stores, %d transactions, %d order items, %d dates, %d facts\n",
		store.Target, summary.Products, summary.Customers, summary.Stores,
		summary.Transactions, summary.OrderItems, summary.Dates, summary.Facts)
	return nil
}
