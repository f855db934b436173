//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/testutil"
)

// scriptedModel replays fixed replies and records prompts.
type scriptedModel struct {
	replies []string
	err     error
	prompts []string
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", errors.New("no more replies")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

var regionTable = db.Table{
	Name: "dim_store",
	Key:  "store_key",
	Columns: []db.Column{
		{Name: "store_key", Type: db.Integer},
		{Name: "region", Type: db.Text},
	},
}

func storeWithRegions(t *testing.T) *db.Store {
	t.Helper()
	store := testutil.OpenSQLite(t)
	stmts := []string{
		store.Dialect.CreateTableSQL(regionTable),
		"INSERT INTO dim_store (store_key, region) VALUES (1, 'North'), (2, 'South'), (3, 'North')",
	}
	for _, s := range stmts {
		if _, err := store.DB.Exec(s); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return store
}

func TestSQLAgentRun(t *testing.T) {
	store := storeWithRegions(t)
	model := &scriptedModel{replies: []string{
		"```sql\nSELECT region, COUNT(*) AS stores FROM dim_store GROUP BY region ORDER BY region;\n```",
		"North has 2 stores and South has 1.\n",
	}}

	a := NewSQLAgent(store, model, []db.Table{regionTable}, Options{})
	answer, err := a.Run(context.Background(), "How many stores per region?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if answer != "North has 2 stores and South has 1." {
		t.Errorf("Unexpected answer %q", answer)
	}

	if len(model.prompts) != 2 {
		t.Fatalf("Expected 2 model calls, got %d", len(model.prompts))
	}
	if !strings.Contains(model.prompts[0], "CREATE TABLE IF NOT EXISTS dim_store") {
		t.Error("Query prompt lacks the schema")
	}
	if !strings.Contains(model.prompts[0], "How many stores per region?") {
		t.Error("Query prompt lacks the question")
	}
	if !strings.Contains(model.prompts[1], `{"region":"North","stores":2}`) {
		t.Errorf("Answer prompt lacks the rows: %s", model.prompts[1])
	}
}

func TestSQLAgentRowCap(t *testing.T) {
	store := storeWithRegions(t)
	model := &scriptedModel{replies: []string{"SELECT store_key FROM dim_store ORDER BY store_key", "ok"}}

	a := NewSQLAgent(store, model, []db.Table{regionTable}, Options{MaxRows: 2})
	if _, err := a.Run(context.Background(), "List stores"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(model.prompts[1], `[{"store_key":1},{"store_key":2}]`) {
		t.Errorf("Expected two capped rows in prompt: %s", model.prompts[1])
	}
}

func TestSQLAgentErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *scriptedModel
	}{
		{"model failure", &scriptedModel{err: errors.New("quota exceeded")}},
		{"write statement", &scriptedModel{replies: []string{"DELETE FROM dim_store"}}},
		{"bad sql", &scriptedModel{replies: []string{"SELECT nope FROM missing"}}},
		{"answer failure", &scriptedModel{replies: []string{"SELECT 1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithRegions(t)
			a := NewSQLAgent(store, tt.model, []db.Table{regionTable}, Options{})

			_, err := a.Run(context.Background(), "question")
			if !errors.Is(err, ErrUpstream) {
				t.Errorf("Expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestReadOnlyQuery(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{"plain", "SELECT 1", "SELECT 1", false},
		{"semicolon", "  select * from t;  ", "select * from t", false},
		{"fenced", "```sql\nSELECT a FROM t\n```", "SELECT a FROM t", false},
		{"cte", "WITH x AS (SELECT 1) SELECT * FROM x", "WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"column named updated_at", "SELECT updated_at FROM t", "SELECT updated_at FROM t", false},
		{"empty", "```\n```", "", true},
		{"two statements", "SELECT 1; SELECT 2", "", true},
		{"insert", "INSERT INTO t VALUES (1)", "", true},
		{"cte with delete", "WITH x AS (DELETE FROM t RETURNING *) SELECT * FROM x", "", true},
		{"pragma", "PRAGMA table_info(t)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadOnlyQuery(tt.reply)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadOnlyQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadOnlyQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchemaContext(t *testing.T) {
	got := SchemaContext(db.SQLiteDialect{}, []db.Table{regionTable, db.MetadataTable})
	want := "CREATE TABLE IF NOT EXISTS dim_store (store_key INTEGER PRIMARY KEY, region TEXT);\n" +
		"CREATE TABLE IF NOT EXISTS seed_metadata (key TEXT PRIMARY KEY, value TEXT);"
	if got != want {
		t.Errorf("SchemaContext() =\n%s\nwant\n%s", got, want)
	}
}

type staticAgent string

func (s staticAgent) Run(context.Context, string) (string, error) { return string(s), nil }

func TestProviderConstructsOnce(t *testing.T) {
	var calls atomic.Int32
	p := NewProvider(func(context.Context) (Agent, error) {
		calls.Add(1)
		return staticAgent("hi"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Get(context.Background()); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("Expected factory to run once, ran %d times", n)
	}
}

func TestProviderRetriesAfterFailure(t *testing.T) {
	fail := true
	p := NewProvider(func(context.Context) (Agent, error) {
		if fail {
			return nil, ErrMissingAPIKey
		}
		return staticAgent("hi"), nil
	})

	_, err := p.Get(context.Background())
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrUpstream wrapping ErrMissingAPIKey, got %v", err)
	}

	fail = false
	a, err := p.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after recovery failed: %v", err)
	}
	if got, _ := a.Run(context.Background(), "q"); got != "hi" {
		t.Errorf("Unexpected agent answer %q", got)
	}
}

func TestNewGeminiModelRequiresKey(t *testing.T) {
	if _, err := NewGeminiModel(context.Background(), "", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}
