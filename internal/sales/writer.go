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
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgEdge/pgedge-salesagent/internal/datagen"
	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// WriteMode selects what happens to rows already in the store.
type WriteMode string

const (
	// WriteAppend replaces keyed rows and appends order_items and
	// fact_sales, so repeated runs accumulate duplicates in those two.
	WriteAppend WriteMode = "append"

	// WriteReplace empties every dataset table before writing, so repeated
	// runs leave exactly one copy of the dataset.
	WriteReplace WriteMode = "replace"
)

// Validate checks that the mode is known.
func (m WriteMode) Validate() error {
	switch m {
	case WriteAppend, WriteReplace:
		return nil
	default:
		return fmt.Errorf("unknown write mode: %q", m)
	}
}

// Write persists ds, star and the metadata values in one transaction.
// Either every row is committed or none is.
func Write(ctx context.Context, store *db.Store, ds *Dataset, star *Star, mode WriteMode, metadata map[string]string) (err error) {
	if err := mode.Validate(); err != nil {
		return err
	}

	tx, err := store.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", db.ErrStoreAccess, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Warn().Err(rbErr).Msg("Rollback failed")
			}
		}
	}()

	dialect := store.Dialect

	for _, t := range Tables {
		if _, err := tx.ExecContext(ctx, dialect.CreateTableSQL(t)); err != nil {
			return fmt.Errorf("%w: create table %s: %w", db.ErrStoreAccess, t.Name, err)
		}
	}

	if mode == WriteReplace {
		for _, t := range Tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name); err != nil {
				return fmt.Errorf("%w: clear table %s: %w", db.ErrStoreAccess, t.Name, err)
			}
		}
	}

	rows := tableRows(ds, star)
	for _, t := range Tables {
		if err := writeTable(ctx, tx, dialect, t, rows[t.Name]); err != nil {
			return err
		}
	}

	if err := db.SaveMetadata(ctx, tx, dialect, metadata); err != nil {
		return fmt.Errorf("%w: %w", db.ErrStoreAccess, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", db.ErrStoreAccess, err)
	}
	return nil
}

// writeTable upserts keyed tables and appends auto-key tables.
func writeTable(ctx context.Context, tx *sql.Tx, dialect db.Dialect, t db.Table, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	query := dialect.UpsertSQL(t)
	if t.AutoKey {
		query = dialect.InsertSQL(t)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %w", db.ErrStoreAccess, t.Name, err)
	}
	defer stmt.Close()

	progress := datagen.NewProgressReporter(t.Name, int64(len(rows)), datagen.DefaultProgressInterval)
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("%w: write %s: %w", db.ErrStoreAccess, t.Name, err)
		}
		progress.Update(1)
	}
	progress.Done()
	return nil
}

// tableRows renders every table's rows in the column order of Tables.
func tableRows(ds *Dataset, star *Star) map[string][][]any {
	rows := make(map[string][][]any, len(Tables))

	for _, p := range ds.Products {
		rows[productsTable.Name] = append(rows[productsTable.Name],
			[]any{p.ProductID, p.SKU, p.Name, p.Category, p.Price})
		rows[dimProductTable.Name] = append(rows[dimProductTable.Name],
			[]any{p.ProductID, p.ProductID, p.SKU, p.Name, p.Category, p.Price})
	}

	for _, c := range ds.Customers {
		rows[customersTable.Name] = append(rows[customersTable.Name],
			[]any{c.CustomerID, c.Name, c.Username, c.Email, c.Birthdate, c.Address, c.Phone})
		rows[dimCustomerTable.Name] = append(rows[dimCustomerTable.Name],
			[]any{c.CustomerID, c.CustomerID, c.Name, c.Username, c.Email, c.Birthdate, c.Address, c.Phone})
	}

	for _, t := range ds.Transactions {
		rows[transactionsTable.Name] = append(rows[transactionsTable.Name],
			[]any{t.TransactionID, t.CustomerID, t.Datetime, t.NumItems, t.Total, t.Items})
	}

	for _, oi := range ds.OrderItems {
		rows[orderItemsTable.Name] = append(rows[orderItemsTable.Name],
			[]any{oi.TransactionID, oi.ProductID, oi.Quantity, oi.UnitPrice, oi.LineTotal})
	}

	for _, s := range ds.Stores {
		rows[dimStoreTable.Name] = append(rows[dimStoreTable.Name],
			[]any{s.StoreID, s.StoreID, s.Name, s.Address, s.City, s.State, s.Zip, s.Region})
	}

	if star != nil {
		for _, d := range star.Dates {
			rows[dimDateTable.Name] = append(rows[dimDateTable.Name],
				[]any{d.DateKey, d.DateISO, d.Year, d.Month, d.Day, d.Weekday})
		}
		for _, f := range star.Facts {
			rows[factSalesTable.Name] = append(rows[factSalesTable.Name],
				[]any{f.TransactionID, f.DateKey, f.CustomerKey, f.ProductKey, f.StoreKey,
					f.Quantity, f.UnitPrice, f.LineTotal})
		}
	}

	return rows
}
