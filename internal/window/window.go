// Package window computes the reporting window for a survey run.
//
// Two windows exist on purpose: the API filter window spans 3 days and the
// display label window spans 2 days. The asymmetry is a business rule
// inherited from the reporting routine, not a bug.
package window

import (
	"time"
)

// AnchorHour is the time of day the filter window is anchored to.
const AnchorHour = 3

const (
	filterStartOffsetDays = 34
	filterEndOffsetDays   = 31
	labelStartOffsetDays  = 34
	labelEndOffsetDays    = 32
)

// Window holds the computed date ranges for one run.
type Window struct {
	// FilterStart/FilterEnd bound the API query (startedAt/concludedAt),
	// anchored at 03:00 local time. FilterEnd - FilterStart is exactly 72h.
	FilterStart time.Time
	FilterEnd   time.Time

	// LabelStart/LabelEnd are plain calendar dates used in file names and
	// the matrix label columns. The span is 2 days.
	LabelStart string
	LabelEnd   string
}

// Compute derives the window from a reference instant in the given zone.
func Compute(ref time.Time, loc *time.Location) Window {
	local := ref.In(loc)
	anchor := time.Date(local.Year(), local.Month(), local.Day(), AnchorHour, 0, 0, 0, loc)

	return Window{
		FilterStart: anchor.Add(-filterStartOffsetDays * 24 * time.Hour),
		FilterEnd:   anchor.Add(-filterEndOffsetDays * 24 * time.Hour),
		LabelStart:  local.AddDate(0, 0, -labelStartOffsetDays).Format("2006-01-02"),
		LabelEnd:    local.AddDate(0, 0, -labelEndOffsetDays).Format("2006-01-02"),
	}
}

// FilterStartISO returns the filter start formatted for the API query.
func (w Window) FilterStartISO() string {
	return w.FilterStart.Format(time.RFC3339)
}

// FilterEndISO returns the filter end formatted for the API query.
func (w Window) FilterEndISO() string {
	return w.FilterEnd.Format(time.RFC3339)
}
