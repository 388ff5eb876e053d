package survey

import (
	"strconv"
	"strings"
)

// currencyPrefix is the literal prefix surveyors type in front of prices.
const currencyPrefix = "R$ "

// CleanAndConvert coerces a free-text currency value into a float.
//
// Survey answers arrive in every shape the field can produce: "R$ 10,50",
// "10.50", "1.001,00", "13I,75", stray symbols, duplicated decimal points.
// The function is total: any input yields either a parsed value or a miss,
// it never panics.
//
// Steps:
//  1. non-string input is a miss
//  2. drop the "R$ " prefix, normalize comma to period
//  3. keep only digits and periods
//  4. with more than one period, only the last one is the decimal point;
//     earlier ones are thousands separators and are removed
//  5. parse; failure is a miss
func CleanAndConvert(value any) (float64, bool) {
	s, ok := value.(string)
	if !ok {
		return 0, false
	}

	s = strings.ReplaceAll(s, currencyPrefix, "")
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if strings.Count(s, ".") > 1 {
		parts := strings.Split(s, ".")
		s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
