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
	"fmt"
	"sync"

	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// Factory constructs an Agent.
type Factory func(ctx context.Context) (Agent, error)

// Provider hands out one shared Agent for the life of the process.
// Construction happens on first use; a failed construction is retried on
// the next call.
type Provider struct {
	mu      sync.Mutex
	factory Factory
	agent   Agent
}

// NewProvider creates a provider around factory.
func NewProvider(factory Factory) *Provider {
	return &Provider{factory: factory}
}

// Get returns the shared agent, constructing it if needed.
func (p *Provider) Get(ctx context.Context) (Agent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.agent != nil {
		return p.agent, nil
	}

	a, err := p.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: construct agent: %w", ErrUpstream, err)
	}

	logging.Info().Msg("Agent ready")
	p.agent = a
	return a, nil
}
