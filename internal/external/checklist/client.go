// Package checklist talks to the Checklist Fácil survey platform.
//
// Two hosts are involved: the analytics API serves listings (checklists,
// applied evaluations) and the integration API serves full evaluation
// payloads. Both are read-only, bearer-token authenticated JSON endpoints.
package checklist

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/gfarias-dados/pesquisa-preco/internal/window"
	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/httputil"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// Client handles communication with the Checklist Fácil API.
type Client struct {
	httpClient     *httputil.Client
	logger         *logger.Logger
	analyticsURL   string
	integrationURL string
	limiter        *rate.Limiter
}

// NewClient creates a new Checklist Fácil client. The limiter paces the
// per-evaluation detail loop; calls stay strictly sequential.
func NewClient(httpClient *httputil.Client, cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient:     httpClient.WithBearerToken(cfg.Checklist.Token),
		logger:         log,
		analyticsURL:   cfg.Checklist.AnalyticsURL,
		integrationURL: cfg.Checklist.IntegrationURL,
		limiter:        rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// ListChecklists fetches the checklist catalog and keeps only checklists
// that are active and not soft-deleted.
func (c *Client) ListChecklists(ctx context.Context) ([]ChecklistSummary, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("limit", "200")

	fullURL := fmt.Sprintf("%s/v1/checklists?%s", c.analyticsURL, params.Encode())

	var env envelope[ChecklistSummary]
	if err := c.httpClient.GetJSON(ctx, fullURL, &env); err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}

	active := make([]ChecklistSummary, 0, len(env.Data))
	for _, cl := range env.Data {
		if cl.Active && cl.DeletedAt == nil {
			active = append(active, cl)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"total":  len(env.Data),
		"active": len(active),
	}).Debug("Fetched checklist catalog")

	return active, nil
}

// ListEvaluationIDs fetches the applied evaluations of a checklist whose
// submission falls inside the filter window and returns the unique set of
// evaluation ids in first-seen order.
func (c *Client) ListEvaluationIDs(ctx context.Context, checklistID int, win window.Window) ([]int64, error) {
	params := url.Values{}
	params.Set("startedAt[gte]", win.FilterStartISO())
	params.Set("concludedAt[lte]", win.FilterEndISO())
	params.Set("checklistId", strconv.Itoa(checklistID))
	params.Set("limit", "1000")

	fullURL := fmt.Sprintf("%s/v1/evaluations?%s", c.analyticsURL, params.Encode())

	var env envelope[appliedEvaluation]
	if err := c.httpClient.GetJSON(ctx, fullURL, &env); err != nil {
		return nil, fmt.Errorf("list evaluation ids: %w", err)
	}

	seen := make(map[int64]struct{}, len(env.Data))
	ids := make([]int64, 0, len(env.Data))
	for _, row := range env.Data {
		if _, dup := seen[row.EvaluationID]; dup {
			continue
		}
		seen[row.EvaluationID] = struct{}{}
		ids = append(ids, row.EvaluationID)
	}

	c.logger.WithFields(map[string]interface{}{
		"checklist_id": checklistID,
		"rows":         len(env.Data),
		"unique_ids":   len(ids),
	}).Debug("Fetched applied evaluation ids")

	return ids, nil
}

// GetEvaluation fetches the full nested payload of one evaluation.
func (c *Client) GetEvaluation(ctx context.Context, id int64) (*Evaluation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf("%s/v2/evaluations/%d", c.integrationURL, id)

	var eval Evaluation
	if err := c.httpClient.GetJSON(ctx, fullURL, &eval); err != nil {
		return nil, fmt.Errorf("get evaluation %d: %w", id, err)
	}

	return &eval, nil
}

// GetEvaluations fetches every id in sequence. A failed id is logged and
// skipped so one broken evaluation does not sink the whole run; the caller
// receives the count of failures alongside the payloads.
func (c *Client) GetEvaluations(ctx context.Context, ids []int64) ([]Evaluation, int, error) {
	evals := make([]Evaluation, 0, len(ids))
	failed := 0

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return evals, failed, ctx.Err()
		default:
		}

		eval, err := c.GetEvaluation(ctx, id)
		if err != nil {
			c.logger.WithError(err).WithField("evaluation_id", id).Error("Evaluation fetch failed")
			failed++
			continue
		}
		evals = append(evals, *eval)
	}

	return evals, failed, nil
}
