package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gfarias-dados/pesquisa-preco/internal/catalog"
	"github.com/gfarias-dados/pesquisa-preco/internal/export"
	"github.com/gfarias-dados/pesquisa-preco/internal/external/checklist"
	"github.com/gfarias-dados/pesquisa-preco/internal/notify"
	"github.com/gfarias-dados/pesquisa-preco/internal/pipeline"
	"github.com/gfarias-dados/pesquisa-preco/internal/warehouse"
	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/database"
	"github.com/gfarias-dados/pesquisa-preco/pkg/httputil"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// buildPipeline wires every component of the survey pipeline.
// The returned cleanup closes the warehouse pool when one was opened.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, *config.Config, *logger.Logger, func(), error) {
	// 1. Load config
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create HTTP client and API client
	httpClient := httputil.New(cfg, log)
	client := checklist.NewClient(httpClient, cfg, log)

	// 4. Load lookup tables
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	// 5. Create exporter
	exporter := export.NewWriter(cfg.OutputDir, log)

	// 6. Create mailer
	mailer, err := notify.NewMailer(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create mailer: %w", err)
	}

	// 7. Optional warehouse
	var store pipeline.MatrixStore
	cleanup := func() {}
	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connect to warehouse: %w", err)
		}
		store = warehouse.NewRepository(db.Pool, log)
		cleanup = db.Close
	}

	p := pipeline.New(client, cat, exporter, mailer, store, cfg, log)
	return p, cfg, log, cleanup, nil
}
