package window

import (
	"testing"
	"time"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestComputeSpans(t *testing.T) {
	loc := saoPaulo(t)

	refs := []time.Time{
		time.Date(2026, 3, 2, 9, 15, 0, 0, loc),
		time.Date(2026, 1, 1, 0, 0, 1, 0, loc),
		time.Date(2025, 12, 31, 23, 59, 59, 0, loc),
		time.Date(2026, 7, 14, 3, 0, 0, 0, loc),
		time.Date(2024, 2, 29, 12, 0, 0, 0, loc), // leap day
	}

	for _, ref := range refs {
		t.Run(ref.Format(time.RFC3339), func(t *testing.T) {
			w := Compute(ref, loc)

			if got := w.FilterEnd.Sub(w.FilterStart); got != 72*time.Hour {
				t.Errorf("filter span = %v, want 72h", got)
			}

			start, err := time.ParseInLocation("2006-01-02", w.LabelStart, loc)
			if err != nil {
				t.Fatalf("LabelStart %q: %v", w.LabelStart, err)
			}
			end, err := time.ParseInLocation("2006-01-02", w.LabelEnd, loc)
			if err != nil {
				t.Fatalf("LabelEnd %q: %v", w.LabelEnd, err)
			}
			if got := end.Sub(start); got != 48*time.Hour {
				t.Errorf("label span = %v, want 48h", got)
			}
		})
	}
}

func TestComputeAnchor(t *testing.T) {
	loc := saoPaulo(t)
	ref := time.Date(2026, 3, 6, 14, 30, 0, 0, loc)

	w := Compute(ref, loc)

	wantStart := time.Date(2026, 1, 31, 3, 0, 0, 0, loc)
	if !w.FilterStart.Equal(wantStart) {
		t.Errorf("FilterStart = %v, want %v", w.FilterStart, wantStart)
	}

	wantEnd := time.Date(2026, 2, 3, 3, 0, 0, 0, loc)
	if !w.FilterEnd.Equal(wantEnd) {
		t.Errorf("FilterEnd = %v, want %v", w.FilterEnd, wantEnd)
	}

	if w.LabelStart != "2026-01-31" {
		t.Errorf("LabelStart = %q, want 2026-01-31", w.LabelStart)
	}
	if w.LabelEnd != "2026-02-02" {
		t.Errorf("LabelEnd = %q, want 2026-02-02", w.LabelEnd)
	}
}

func TestFilterISOFormat(t *testing.T) {
	loc := saoPaulo(t)
	w := Compute(time.Date(2026, 3, 6, 14, 30, 0, 0, loc), loc)

	if got, want := w.FilterStartISO(), "2026-01-31T03:00:00-03:00"; got != want {
		t.Errorf("FilterStartISO() = %q, want %q", got, want)
	}
	if got, want := w.FilterEndISO(), "2026-02-03T03:00:00-03:00"; got != want {
		t.Errorf("FilterEndISO() = %q, want %q", got, want)
	}
}

func TestComputeNormalizesZone(t *testing.T) {
	loc := saoPaulo(t)

	// A UTC reference late in the evening is already the next day in UTC
	// but the anchor must follow the local calendar date.
	ref := time.Date(2026, 3, 7, 1, 30, 0, 0, time.UTC) // 22:30 on Mar 6 in SP

	w := Compute(ref, loc)

	if w.LabelStart != "2026-01-31" {
		t.Errorf("LabelStart = %q, want 2026-01-31 (local date)", w.LabelStart)
	}
}
