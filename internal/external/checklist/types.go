package checklist

// envelope is the JSON wrapper the analytics API puts around list payloads.
type envelope[T any] struct {
	Data []T `json:"data"`
}

// ChecklistSummary is one row of the checklist listing.
type ChecklistSummary struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Active    bool    `json:"active"`
	DeletedAt *string `json:"deletedAt"`
}

// appliedEvaluation is one row of the applied-evaluation listing. Only the
// evaluation id is consumed downstream.
type appliedEvaluation struct {
	EvaluationID int64 `json:"evaluationId"`
}

// Evaluation is one submitted checklist with its full nested answer tree.
type Evaluation struct {
	ID         int64      `json:"id"`
	Unit       NamedRef   `json:"unit"`
	User       NamedRef   `json:"user"`
	Categories []Category `json:"categories"`
}

// NamedRef is a referenced entity of which only the name matters here.
type NamedRef struct {
	Name string `json:"name"`
}

// Category is a named group of items inside an evaluation.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// ScalePriceEntry is the scale tag marking an item as a free-text price
// observation. Other scales carry dates, GPS fixes, signatures and the like.
const ScalePriceEntry = 5

// Item is a single question or observation inside a category.
type Item struct {
	Name   string  `json:"name"`
	Scale  int     `json:"scale"`
	Answer *Answer `json:"answer"`
}

// Answer holds the answered value of an item. Price entries use Text.
type Answer struct {
	Text *string `json:"text"`
}

// RawText returns the answer text as an untyped value: a string when the
// item was answered with text, nil otherwise. The price sanitizer treats
// every non-string as a miss, so the distinction is preserved.
func (i Item) RawText() any {
	if i.Answer == nil || i.Answer.Text == nil {
		return nil
	}
	return *i.Answer.Text
}
