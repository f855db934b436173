//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"fmt"
	"strings"
)

// ColumnType is a portable column type.
type ColumnType int

// Portable column types.
const (
	Integer ColumnType = iota
	Real
	Text
)

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType
}

// Table describes a table: its primary key and its columns, key first.
type Table struct {
	// Name is the table name.
	Name string

	// Key is the primary key column; it must also appear in Columns.
	Key string

	// AutoKey marks a store-assigned integer key. Rows for such tables
	// never carry the key and are always appended.
	AutoKey bool

	Columns []Column
}

// ColumnNames returns every column name in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// InsertColumns returns the columns a row supplies on insert.
func (t Table) InsertColumns() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if t.AutoKey && c.Name == t.Key {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// Dialect renders the SQL that differs between supported stores.
type Dialect interface {
	// Name is the store driver name from configuration.
	Name() string

	// DriverName is the database/sql driver to open.
	DriverName() string

	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder(n int) string

	// CreateTableSQL creates the table if it does not exist.
	CreateTableSQL(t Table) string

	// UpsertSQL inserts a row, replacing any row with the same key.
	UpsertSQL(t Table) string

	// InsertSQL appends a row.
	InsertSQL(t Table) string

	// TableExistsSQL counts tables with the name bound to parameter 1.
	TableExistsSQL() string
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return SQLiteDialect{}, nil
	case DriverPostgres:
		return PostgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}

// SQLiteDialect targets SQLite through mattn/go-sqlite3.
type SQLiteDialect struct{}

// Name implements Dialect.
func (SQLiteDialect) Name() string { return DriverSQLite }

// DriverName implements Dialect.
func (SQLiteDialect) DriverName() string { return "sqlite3" }

// Placeholder implements Dialect.
func (SQLiteDialect) Placeholder(int) string { return "?" }

// CreateTableSQL implements Dialect.
func (d SQLiteDialect) CreateTableSQL(t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := c.Name + " " + sqliteType(c.Type)
		if c.Name == t.Key {
			def += " PRIMARY KEY"
			if t.AutoKey {
				def += " AUTOINCREMENT"
			}
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
}

// UpsertSQL implements Dialect.
func (d SQLiteDialect) UpsertSQL(t Table) string {
	return "INSERT OR REPLACE" + d.valuesClause(t)
}

// InsertSQL implements Dialect.
func (d SQLiteDialect) InsertSQL(t Table) string {
	return "INSERT" + d.valuesClause(t)
}

// TableExistsSQL implements Dialect.
func (SQLiteDialect) TableExistsSQL() string {
	return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
}

func (d SQLiteDialect) valuesClause(t Table) string {
	return valuesClause(d, t.Name, t.InsertColumns())
}

func sqliteType(ct ColumnType) string {
	switch ct {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	default:
		return "TEXT"
	}
}

// PostgresDialect targets PostgreSQL through the pgx database/sql driver.
type PostgresDialect struct{}

// Name implements Dialect.
func (PostgresDialect) Name() string { return DriverPostgres }

// DriverName implements Dialect.
func (PostgresDialect) DriverName() string { return "pgx" }

// Placeholder implements Dialect.
func (PostgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// CreateTableSQL implements Dialect.
func (PostgresDialect) CreateTableSQL(t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == t.Key && t.AutoKey {
			defs = append(defs, c.Name+" BIGSERIAL PRIMARY KEY")
			continue
		}
		def := c.Name + " " + postgresType(c.Type)
		if c.Name == t.Key {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
}

// UpsertSQL implements Dialect.
func (d PostgresDialect) UpsertSQL(t Table) string {
	cols := t.InsertColumns()
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == t.Key {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	conflict := "DO NOTHING"
	if len(sets) > 0 {
		conflict = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf("INSERT%s ON CONFLICT (%s) %s",
		valuesClause(d, t.Name, cols), t.Key, conflict)
}

// InsertSQL implements Dialect.
func (d PostgresDialect) InsertSQL(t Table) string {
	return "INSERT" + valuesClause(d, t.Name, t.InsertColumns())
}

// TableExistsSQL implements Dialect.
func (PostgresDialect) TableExistsSQL() string {
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
}

func postgresType(ct ColumnType) string {
	switch ct {
	case Integer:
		return "BIGINT"
	case Real:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func valuesClause(d Dialect, table string, cols []string) string {
	params := make([]string, len(cols))
	for i := range cols {
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf(" INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(params, ", "))
}
