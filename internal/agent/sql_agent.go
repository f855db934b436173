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
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// DefaultMaxRows caps the rows returned to the model.
const DefaultMaxRows = 50

var (
	leadingKeyword = regexp.MustCompile(`(?i)^\s*(select|with)\b`)
	writeKeyword   = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate|attach|detach|pragma|vacuum|grant|revoke)\b`)
)

// Options tunes an SQLAgent.
type Options struct {
	// MaxRows caps the rows passed back to the model. Zero means DefaultMaxRows.
	MaxRows int
}

// SQLAgent answers a question in two model calls: one to write a read-only
// query against the store, one to phrase the answer from its result.
type SQLAgent struct {
	store   *db.Store
	model   Model
	schema  string
	maxRows int
}

// NewSQLAgent creates an agent over store that describes tables to the model.
func NewSQLAgent(store *db.Store, model Model, tables []db.Table, opts Options) *SQLAgent {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &SQLAgent{
		store:   store,
		model:   model,
		schema:  SchemaContext(store.Dialect, tables),
		maxRows: maxRows,
	}
}

// Run implements Agent.
func (a *SQLAgent) Run(ctx context.Context, question string) (string, error) {
	start := time.Now()

	reply, err := a.model.Generate(ctx, a.queryPrompt(question))
	if err != nil {
		return "", fmt.Errorf("%w: generate query: %w", ErrUpstream, err)
	}

	query, err := ReadOnlyQuery(reply)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result, err := a.execute(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: run query: %w", ErrUpstream, err)
	}

	answer, err := a.model.Generate(ctx, answerPrompt(question, query, result))
	if err != nil {
		return "", fmt.Errorf("%w: generate answer: %w", ErrUpstream, err)
	}

	logger := logging.Component("agent")
	logger.Debug().
		Str("query", query).
		Dur("elapsed", time.Since(start)).
		Msg("Answered question")

	return strings.TrimSpace(answer), nil
}

func (a *SQLAgent) queryPrompt(question string) string {
	return fmt.Sprintf(`You are an analyst for a grocery chain. Write one %s SQL query that answers the question.
Use only these tables:

%s

Rules:
- Return a single SELECT statement and nothing else.
- Do not modify data.
- Limit results to at most %d rows.

Question: %s`, a.store.Dialect.Name(), a.schema, a.maxRows, question)
}

func answerPrompt(question, query, result string) string {
	return fmt.Sprintf(`Answer the question in plain language using the query result.
If the result is empty, say the data does not contain the answer.

Question: %s
Query: %s
Result (JSON rows): %s`, question, query, result)
}

// ReadOnlyQuery extracts a single read-only statement from a model reply.
// Markdown fences and a trailing semicolon are removed.
func ReadOnlyQuery(reply string) (string, error) {
	s := strings.TrimSpace(reply)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))

	switch {
	case s == "":
		return "", fmt.Errorf("model returned no query")
	case strings.Contains(s, ";"):
		return "", fmt.Errorf("model returned more than one statement")
	case !leadingKeyword.MatchString(s):
		return "", fmt.Errorf("model returned a non-SELECT statement")
	case writeKeyword.MatchString(s):
		return "", fmt.Errorf("model returned a statement that writes")
	}
	return s, nil
}

// execute runs query in a read-only transaction and renders at most
// maxRows rows as a JSON array of objects.
func (a *SQLAgent) execute(ctx context.Context, query string) (string, error) {
	tx, err := a.store.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	result := make([]map[string]any, 0)
	for rows.Next() && len(result) < a.maxRows {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
