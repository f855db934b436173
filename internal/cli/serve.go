package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesagent/internal/agent"
	"github.com/pgEdge/pgedge-salesagent/internal/api"
	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/logging"
	"github.com/pgEdge/pgedge-salesagent/internal/sales"
)

var (
	serveAddr    string
	serveModel   string
	serveMaxRows int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the natural-language query API",
	Long: `Start the HTTP API. The store is seeded first if no previous seed
completed; a failed seed is logged and the server starts anyway.

Endpoints:
  POST /query    {"question": "..."} -> {"answer": "..."}
  GET  /health   liveness check
  GET  /metrics  Prometheus metrics

The server runs until interrupted with Ctrl+C.

Example:
  GEMINI_API_KEY=... pgedge-salesagent serve --addr :8000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :8000)")
	serveCmd.Flags().StringVar(&serveModel, "model", "",
		"language model name")
	serveCmd.Flags().IntVar(&serveMaxRows, "max-rows", 0,
		"maximum query rows passed to the model")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveModel != "" {
		cfg.Agent.Model = serveModel
	}
	if serveMaxRows > 0 {
		cfg.Agent.MaxRows = serveMaxRows
	}

	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	opts, err := cfg.SeedOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	sales.EnsureSeeded(ctx, store, opts)

	provider := agent.NewProvider(func(ctx context.Context) (agent.Agent, error) {
		model, err := agent.NewGeminiModel(ctx, cfg.Agent.APIKey, cfg.Agent.Model)
		if err != nil {
			return nil, err
		}
		return agent.NewSQLAgent(store, model, sales.Tables, agent.Options{MaxRows: cfg.Agent.MaxRows}), nil
	})

	if _, err := provider.Get(ctx); err != nil {
		if errors.Is(err, agent.ErrMissingAPIKey) {
			logging.Error().Msg("Agent API key is not set; set AGENT_API_KEY or GEMINI_API_KEY")
		} else {
			logging.Error().Err(err).Msg("Agent unavailable")
		}
	}

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Str("model", cfg.Agent.Model).
		Str("store", store.Target).
		Msg("Starting server")

	server := api.NewServer(api.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, provider)

	if err := server.Run(ctx); err != nil {
		return err
	}
	logging.Info().Msg("Server stopped")
	return nil
}
