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
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when no model API key is configured.
var ErrMissingAPIKey = errors.New("agent API key is not set")

// GeminiModel is a Model backed by the Gemini API.
type GeminiModel struct {
	client *genai.Client
	name   string
}

// NewGeminiModel creates a Gemini client for the named model.
func NewGeminiModel(ctx context.Context, apiKey, name string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if name == "" {
		name = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiModel{client: client, name: name}, nil
}

// Generate implements Model. Sampling is deterministic.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", m.name)
	}
	return text, nil
}
