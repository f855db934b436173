//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-salesagent.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesagent/internal/config"
	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
	"github.com/pgEdge/pgedge-salesagent/internal/sales"
	"github.com/pgEdge/pgedge-salesagent/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	dbPath   string
	driver   string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-salesagent",
		Short: "Synthetic grocery sales data with a natural-language query agent",
		Long: `pgedge-salesagent generates a deterministic synthetic grocery sales
dataset (products, customers, stores, transactions and order lines),
derives a star schema from it and writes both to SQLite or PostgreSQL.

The serve command exposes an HTTP API that answers natural-language
questions about the data by letting a language model query the store.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-salesagent.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"SQLite database path")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "",
		"store driver (sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(infoCmd)
}

func initConfig(cmd *cobra.Command) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if driver != "" {
		cfg.Store.Driver = driver
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show seed metadata and table row counts",
	Long: `Show how the store was seeded and how many rows each dataset
table holds. Tables that do not exist yet are omitted.`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := db.Open(ctx, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	seeded, err := db.IsSeeded(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to read seed state: %w", err)
	}

	cmd.Printf("Store: %s (%s)\n", store.Target, store.Dialect.Name())
	if !seeded {
		cmd.Println("Seeded: no")
	} else {
		meta, err := db.GetAllMetadata(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to read metadata: %w", err)
		}
		cmd.Println("Seeded: yes")
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("  %-18s %s\n", k, meta[k])
		}
	}

	counts, err := store.TableCounts(ctx, sales.TableNames())
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	cmd.Println("Tables:")
	for _, name := range sales.TableNames() {
		if n, ok := counts[name]; ok {
			cmd.Printf("  %-14s %d\n", name, n)
		}
	}
	return nil
}
