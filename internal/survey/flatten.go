// Package survey flattens nested evaluation payloads into per-item rows
// and sanitizes the free-text price answers they carry.
package survey

import (
	"regexp"

	"github.com/gfarias-dados/pesquisa-preco/internal/external/checklist"
)

// boilerplateSuffix is appended by the checklist template to every price
// question ("inform the value and attach the photo"). It is stripped before
// the item name is used as a product key.
var boilerplateSuffix = regexp.MustCompile(` - Informe o valor e anexe a foto;?:?`)

// Row is one (evaluation, category, item) leaf after flattening, with the
// evaluation-level fields carried down to the item.
type Row struct {
	EvaluationID int64
	Store        string
	Respondent   string
	Category     string
	Item         string
	Scale        int
	RawAnswer    any
}

// PriceRow is a Row narrowed to a price observation.
type PriceRow struct {
	Store      string
	Respondent string
	Product    string
	RawAnswer  any
}

// Flatten walks each evaluation structurally (evaluation -> category ->
// item) and emits exactly one Row per leaf item. The output length is the
// sum over all evaluations of categories x items; nothing is dropped or
// duplicated here.
func Flatten(evals []checklist.Evaluation) []Row {
	var rows []Row
	for _, eval := range evals {
		for _, cat := range eval.Categories {
			for _, item := range cat.Items {
				rows = append(rows, Row{
					EvaluationID: eval.ID,
					Store:        eval.Unit.Name,
					Respondent:   eval.User.Name,
					Category:     cat.Name,
					Item:         item.Name,
					Scale:        item.Scale,
					RawAnswer:    item.RawText(),
				})
			}
		}
	}
	return rows
}

// FilterPrices keeps only price-entry rows (scale tag 5) and strips the
// boilerplate suffix from item names. Metadata items (photos, signatures,
// GPS and date answers) carry other scale tags and are discarded.
func FilterPrices(rows []Row) []PriceRow {
	prices := make([]PriceRow, 0, len(rows))
	for _, row := range rows {
		if row.Scale != checklist.ScalePriceEntry {
			continue
		}
		prices = append(prices, PriceRow{
			Store:      row.Store,
			Respondent: row.Respondent,
			Product:    boilerplateSuffix.ReplaceAllString(row.Item, ""),
			RawAnswer:  row.RawAnswer,
		})
	}
	return prices
}
