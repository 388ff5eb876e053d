// Package warehouse bulk-loads the pivoted price matrix into PostgreSQL.
// The load is optional: it only runs when DATABASE_URL is configured. The
// flat CSV remains the primary bulk-load artifact; this path feeds the same
// observations to the internal warehouse without the file hop.
package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gfarias-dados/pesquisa-preco/internal/pivot"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// Repository persists price matrices.
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a new matrix repository.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, logger: log}
}

// EnsureSchema creates the target table when it does not exist yet. One row
// per (window, store, product) cell; price is NULL for empty cells so the
// matrix stays reconstructible.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS price_survey_matrix (
			window_start DATE        NOT NULL,
			window_end   DATE        NOT NULL,
			store_key    TEXT        NOT NULL,
			product_code TEXT        NOT NULL,
			avg_price    NUMERIC(10, 2),
			loaded_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (window_start, window_end, store_key, product_code)
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create price_survey_matrix: %w", err)
	}
	return nil
}

// SaveMatrix replaces the window's rows and bulk-copies the matrix cells.
func (r *Repository) SaveMatrix(ctx context.Context, m *pivot.Matrix) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// A rerun of the same window overwrites the previous load.
	_, err = tx.Exec(ctx,
		`DELETE FROM price_survey_matrix WHERE window_start = $1 AND window_end = $2`,
		m.LabelStart, m.LabelEnd,
	)
	if err != nil {
		return 0, fmt.Errorf("clear window: %w", err)
	}

	rows := make([][]any, 0, len(m.Rows)*len(m.Columns))
	for _, row := range m.Rows {
		for i, code := range m.Columns {
			var price any
			if row.Cells[i] != nil {
				price = *row.Cells[i]
			}
			rows = append(rows, []any{m.LabelStart, m.LabelEnd, row.StoreKey, code, price})
		}
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"price_survey_matrix"},
		[]string{"window_start", "window_end", "store_key", "product_code", "avg_price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy matrix rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"rows":   copied,
		"window": m.LabelStart + ".." + m.LabelEnd,
	}).Info("Matrix loaded into warehouse")

	return copied, nil
}
