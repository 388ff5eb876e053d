// Package pivot reshapes sanitized price rows into the store x product
// average-price matrix, the pipeline's primary output artifact.
package pivot

import (
	"sort"
	"strconv"

	"github.com/gfarias-dados/pesquisa-preco/internal/catalog"
	"github.com/gfarias-dados/pesquisa-preco/internal/survey"
	"github.com/gfarias-dados/pesquisa-preco/internal/window"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// NullSentinel is written for cells with no observation. The downstream
// bulk-load interprets the literal string, so this must not be a number.
const NullSentinel = "NULL"

// Bounds is the open interval a sanitized price must fall in to count.
// Values outside are field data-entry errors (a 0,01 placeholder, a missed
// decimal point), not real observations.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds matches the survey's plausible retail price range.
var DefaultBounds = Bounds{Min: 2, Max: 201}

// Matrix is the pivoted result: one row per store, one cell per product
// code in fixed column order, plus the constant window label columns.
type Matrix struct {
	LabelStart string
	LabelEnd   string
	Columns    []string
	Rows       []Row
}

// Row is one store's averages. Cells align with Matrix.Columns; nil means
// no observation survived for that product.
type Row struct {
	StoreKey string
	Cells    []*float64
}

// Stats counts what happened to the input rows on the way in.
type Stats struct {
	Observations  int // rows with a sanitized value inside bounds
	Unparseable   int // sanitizer misses (row kept upstream, excluded here)
	OutOfRange    int // sanitized fine but outside bounds
	StoreMisses   int // store names not in the catalog (passed through)
	ProductMisses int // product names not in the catalog (passed through)
}

// CellString renders a cell for flat-file output.
func CellString(v *float64) string {
	if v == nil {
		return NullSentinel
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Build sanitizes, maps, filters and pivots the price rows.
//
// Catalog misses pass through under their display name, which keeps the
// observation but signals catalog drift; they are logged as warnings when
// warnOnDropped is set, as are out-of-range discards.
func Build(rows []survey.PriceRow, win window.Window, cat *catalog.Catalog, bounds Bounds, log *logger.Logger, warnOnDropped bool) (*Matrix, Stats) {
	var stats Stats

	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[string]map[string]*cell) // store key -> product code -> agg
	extraColumns := map[string]struct{}{}      // pass-through product names seen

	for _, row := range rows {
		value, ok := survey.CleanAndConvert(row.RawAnswer)
		if !ok {
			stats.Unparseable++
			continue
		}
		if value <= bounds.Min || value >= bounds.Max {
			stats.OutOfRange++
			if warnOnDropped {
				log.WithFields(map[string]interface{}{
					"store":   row.Store,
					"product": row.Product,
					"value":   value,
				}).Warn("Price outside plausible range dropped")
			}
			continue
		}

		storeKey, mapped := cat.MapStore(row.Store)
		if !mapped {
			stats.StoreMisses++
			if warnOnDropped {
				log.WithField("store", row.Store).Warn("Store name not in catalog, passing through")
			}
		}
		productCode, mapped := cat.MapProduct(row.Product)
		if !mapped {
			stats.ProductMisses++
			extraColumns[productCode] = struct{}{}
			if warnOnDropped {
				log.WithField("product", row.Product).Warn("Product name not in catalog, passing through")
			}
		}

		byProduct, ok := cells[storeKey]
		if !ok {
			byProduct = make(map[string]*cell)
			cells[storeKey] = byProduct
		}
		agg, ok := byProduct[productCode]
		if !ok {
			agg = &cell{}
			byProduct[productCode] = agg
		}
		agg.sum += value
		agg.count++
		stats.Observations++
	}

	// Fixed declared order first; pass-through products append after it so
	// stray observations stay visible without disturbing column positions.
	columns := cat.ColumnOrder()
	extras := make([]string, 0, len(extraColumns))
	for code := range extraColumns {
		extras = append(extras, code)
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	storeKeys := make([]string, 0, len(cells))
	for key := range cells {
		storeKeys = append(storeKeys, key)
	}
	sortStoreKeys(storeKeys)

	matrix := &Matrix{
		LabelStart: win.LabelStart,
		LabelEnd:   win.LabelEnd,
		Columns:    columns,
		Rows:       make([]Row, 0, len(storeKeys)),
	}

	for _, key := range storeKeys {
		row := Row{StoreKey: key, Cells: make([]*float64, len(columns))}
		for i, code := range columns {
			if agg, ok := cells[key][code]; ok {
				mean := agg.sum / float64(agg.count)
				row.Cells[i] = &mean
			}
		}
		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix, stats
}

// sortStoreKeys orders numeric store ids numerically and places unmapped
// display names after them, alphabetically.
func sortStoreKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}
