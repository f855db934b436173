//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package agent answers natural-language questions about the sales store
// by having a language model write and read SQL.
package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/pgEdge/pgedge-salesagent/internal/db"
)

// ErrUpstream marks failures of the agent or the model behind it.
var ErrUpstream = errors.New("agent failed")

// Agent answers a single question.
type Agent interface {
	Run(ctx context.Context, question string) (string, error)
}

// Model completes a text prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SchemaContext renders table definitions as the schema description
// handed to the model.
func SchemaContext(d db.Dialect, tables []db.Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.CreateTableSQL(t))
		b.WriteString(";")
	}
	return b.String()
}
