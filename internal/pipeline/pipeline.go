// Package pipeline wires the survey run end to end: fetch, flatten, clean,
// pivot, export, notify. Everything is sequential; one run is one pass.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/gfarias-dados/pesquisa-preco/internal/catalog"
	"github.com/gfarias-dados/pesquisa-preco/internal/export"
	"github.com/gfarias-dados/pesquisa-preco/internal/external/checklist"
	"github.com/gfarias-dados/pesquisa-preco/internal/pivot"
	"github.com/gfarias-dados/pesquisa-preco/internal/survey"
	"github.com/gfarias-dados/pesquisa-preco/internal/window"
	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// Mailer sends the artifacts; sent reports whether a mail actually went out.
type Mailer interface {
	Send(ctx context.Context, attachmentPaths []string) (sent bool, err error)
}

// MatrixStore persists the pivoted matrix.
type MatrixStore interface {
	EnsureSchema(ctx context.Context) error
	SaveMatrix(ctx context.Context, m *pivot.Matrix) (int64, error)
}

// Pipeline holds the run's collaborators. Mailer and store may be nil when
// the corresponding output is not configured.
type Pipeline struct {
	client   *checklist.Client
	catalog  *catalog.Catalog
	exporter *export.Writer
	mailer   Mailer
	store    MatrixStore
	cfg      *config.Config
	logger   *logger.Logger
}

// RunReport summarizes one pipeline pass for logging and the status endpoint.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`

	ActiveChecklists int `json:"active_checklists"`
	EvaluationIDs    int `json:"evaluation_ids"`
	Evaluations      int `json:"evaluations"`
	FetchFailures    int `json:"fetch_failures"`

	FlattenedRows int `json:"flattened_rows"`
	PriceRows     int `json:"price_rows"`

	Observations  int `json:"observations"`
	Unparseable   int `json:"unparseable"`
	OutOfRange    int `json:"out_of_range"`
	StoreMisses   int `json:"store_misses"`
	ProductMisses int `json:"product_misses"`

	Stores int `json:"stores"`

	CSVPath       string `json:"csv_path"`
	XLSXPath      string `json:"xlsx_path"`
	EmailSent     bool   `json:"email_sent"`
	WarehouseRows int64  `json:"warehouse_rows"`

	Error string `json:"error,omitempty"`
}

// New creates a Pipeline.
func New(client *checklist.Client, cat *catalog.Catalog, exporter *export.Writer, mailer Mailer, store MatrixStore, cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		catalog:  cat,
		exporter: exporter,
		mailer:   mailer,
		store:    store,
		cfg:      cfg,
		logger:   log,
	}
}

// Run executes one pass for the given reference instant. Fetch and export
// failures abort the run; the email and warehouse steps only log, since the
// artifacts already exist on disk by then.
func (p *Pipeline) Run(ctx context.Context, ref time.Time) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	loc, err := p.cfg.Location()
	if err != nil {
		return fail(report, err)
	}

	win := window.Compute(ref, loc)
	report.WindowStart = win.LabelStart
	report.WindowEnd = win.LabelEnd

	p.logger.WithFields(map[string]interface{}{
		"filter_start": win.FilterStartISO(),
		"filter_end":   win.FilterEndISO(),
		"label_start":  win.LabelStart,
		"label_end":    win.LabelEnd,
	}).Info("Survey run started")

	checklists, err := p.client.ListChecklists(ctx)
	if err != nil {
		return fail(report, fmt.Errorf("fetch checklists: %w", err))
	}
	report.ActiveChecklists = len(checklists)

	ids, err := p.client.ListEvaluationIDs(ctx, p.cfg.Checklist.ChecklistID, win)
	if err != nil {
		return fail(report, fmt.Errorf("fetch evaluation ids: %w", err))
	}
	report.EvaluationIDs = len(ids)

	evals, failed, err := p.client.GetEvaluations(ctx, ids)
	if err != nil {
		return fail(report, fmt.Errorf("fetch evaluations: %w", err))
	}
	report.Evaluations = len(evals)
	report.FetchFailures = failed

	rows := survey.Flatten(evals)
	report.FlattenedRows = len(rows)

	prices := survey.FilterPrices(rows)
	report.PriceRows = len(prices)

	bounds := pivot.Bounds{Min: p.cfg.PriceMin, Max: p.cfg.PriceMax}
	matrix, stats := pivot.Build(prices, win, p.catalog, bounds, p.logger, p.cfg.WarnOnDropped)
	report.Observations = stats.Observations
	report.Unparseable = stats.Unparseable
	report.OutOfRange = stats.OutOfRange
	report.StoreMisses = stats.StoreMisses
	report.ProductMisses = stats.ProductMisses
	report.Stores = len(matrix.Rows)

	csvPath, err := p.exporter.WriteCSV(matrix)
	if err != nil {
		return fail(report, fmt.Errorf("write csv: %w", err))
	}
	report.CSVPath = csvPath

	xlsxPath, err := p.exporter.WriteXLSX(matrix)
	if err != nil {
		return fail(report, fmt.Errorf("write spreadsheet: %w", err))
	}
	report.XLSXPath = xlsxPath

	if p.mailer != nil {
		sent, err := p.mailer.Send(ctx, []string{csvPath, xlsxPath})
		if err != nil {
			p.logger.WithError(err).Error("Report email failed")
		}
		report.EmailSent = sent
	}

	if p.store != nil {
		if err := p.loadWarehouse(ctx, matrix, report); err != nil {
			p.logger.WithError(err).Error("Warehouse load failed")
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"evaluations":  report.Evaluations,
		"price_rows":   report.PriceRows,
		"observations": report.Observations,
		"stores":       report.Stores,
		"email_sent":   report.EmailSent,
	}).Info("Survey run finished")

	return report, nil
}

func (p *Pipeline) loadWarehouse(ctx context.Context, matrix *pivot.Matrix, report *RunReport) error {
	if err := p.store.EnsureSchema(ctx); err != nil {
		return err
	}
	rows, err := p.store.SaveMatrix(ctx, matrix)
	if err != nil {
		return err
	}
	report.WarehouseRows = rows
	return nil
}

func fail(report *RunReport, err error) (*RunReport, error) {
	report.Error = err.Error()
	return report, err
}
