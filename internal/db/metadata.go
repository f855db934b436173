//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// MetadataTable records how and when the dataset was seeded.
var MetadataTable = Table{
	Name: "seed_metadata",
	Key:  "key",
	Columns: []Column{
		{Name: "key", Type: Text},
		{Name: "value", Type: Text},
	},
}

// SeededAtKey is written by every successful seed, in the same transaction
// as the data.
const SeededAtKey = "seeded_at"

// SaveMetadata creates the metadata table if needed and upserts values
// inside tx. Keys are written in sorted order.
func SaveMetadata(ctx context.Context, tx *sql.Tx, dialect Dialect, values map[string]string) error {
	if _, err := tx.ExecContext(ctx, dialect.CreateTableSQL(MetadataTable)); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, dialect.UpsertSQL(MetadataTable))
	if err != nil {
		return fmt.Errorf("failed to prepare metadata upsert: %w", err)
	}
	defer stmt.Close()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, key, values[key]); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Int("keys", len(keys)).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, s *Store, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = %s", MetadataTable.Name, s.Dialect.Placeholder(1)),
		key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, s *Store) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT key, value FROM "+MetadataTable.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// IsSeeded reports whether a seed has ever completed against the store.
func IsSeeded(ctx context.Context, s *Store) (bool, error) {
	exists, err := s.TableExists(ctx, MetadataTable.Name)
	if err != nil || !exists {
		return false, err
	}

	_, err = GetMetadataValue(ctx, s, SeededAtKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
