package survey

import (
	"testing"
)

func TestCleanAndConvert(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  float64
		wantOK bool
	}{
		{"plain comma decimal", "R$ 10,50", 10.50, true},
		{"plain period decimal", "R$ 10.50", 10.50, true},
		{"no prefix", "13,75", 13.75, true},
		{"thousands artifact", "R$ 1.001,00", 1001.00, true},
		{"double period", "R$1.001.00", 1001.00, true},
		{"triple period", "1.234.567.89", 1234567.89, true},
		{"stray letter", "13I,75", 13.75, true},
		{"trailing currency", "10,99 reais", 10.99, true},
		{"integer text", "15", 15, true},
		{"letters only", "abc", 0, false},
		{"empty string", "", 0, false},
		{"only symbols", "R$ ", 0, false},
		{"just periods", "...", 0, false},
		{"non-string int", 42, 0, false},
		{"non-string float", 10.5, 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanAndConvert(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("CleanAndConvert(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CleanAndConvert(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// The sanitizer must be total over arbitrary text: never panic, always
// return a value or a miss.
func TestCleanAndConvertTotal(t *testing.T) {
	inputs := []string{
		"R$ R$ 10,50",
		"...,,,",
		"١٢٣", // non-ASCII digits are discarded, not parsed
		"10,5,3,1",
		"\x00\xff",
		"R$ -10,00", // minus sign is stripped; prices are unsigned here
	}

	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("CleanAndConvert(%q) panicked: %v", in, r)
				}
			}()
			CleanAndConvert(in)
		}()
	}
}

func TestCleanAndConvertNegativeStripped(t *testing.T) {
	// Step 3 removes the minus sign, so a typo'd negative parses positive
	// and is left to the range filter downstream.
	got, ok := CleanAndConvert("-10,00")
	if !ok || got != 10.00 {
		t.Errorf("CleanAndConvert(-10,00) = %v, %v; want 10.00, true", got, ok)
	}
}
