package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfarias-dados/pesquisa-preco/internal/external/checklist"
)

func strPtr(s string) *string { return &s }

func priceItem(name, text string) checklist.Item {
	return checklist.Item{
		Name:   name,
		Scale:  checklist.ScalePriceEntry,
		Answer: &checklist.Answer{Text: strPtr(text)},
	}
}

func photoItem(name string) checklist.Item {
	return checklist.Item{Name: name, Scale: 9}
}

func TestFlattenRowCount(t *testing.T) {
	evals := []checklist.Evaluation{
		{
			ID:   1,
			Unit: checklist.NamedRef{Name: "Santos"},
			User: checklist.NamedRef{Name: "Maria"},
			Categories: []checklist.Category{
				{Name: "Cervejas", Items: []checklist.Item{
					priceItem("Amstel 600ml - Informe o valor e anexe a foto", "R$ 10,50"),
					priceItem("Heineken LT - Informe o valor e anexe a foto", "R$ 7,99"),
					photoItem("Foto da gôndola"),
				}},
				{Name: "Energéticos", Items: []checklist.Item{
					priceItem("Red Bull 250ml - Informe o valor e anexe a foto;", "R$ 9,00"),
				}},
			},
		},
		{
			ID:   2,
			Unit: checklist.NamedRef{Name: "Pituba"},
			User: checklist.NamedRef{Name: "João"},
			Categories: []checklist.Category{
				{Name: "Cervejas", Items: []checklist.Item{
					priceItem("Amstel 600ml - Informe o valor e anexe a foto", "R$ 11,00"),
				}},
			},
		},
	}

	rows := Flatten(evals)

	// Row count must equal the sum of categories x items: (3+1) + 1 = 5.
	require.Len(t, rows, 5)

	// Evaluation-level fields are carried down to every leaf.
	for _, row := range rows[:4] {
		assert.Equal(t, "Santos", row.Store)
		assert.Equal(t, "Maria", row.Respondent)
	}
	assert.Equal(t, "Pituba", rows[4].Store)
	assert.Equal(t, "João", rows[4].Respondent)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]checklist.Evaluation{{ID: 1}}))
}

func TestFilterPrices(t *testing.T) {
	evals := []checklist.Evaluation{
		{
			ID:   1,
			Unit: checklist.NamedRef{Name: "Santos"},
			User: checklist.NamedRef{Name: "Maria"},
			Categories: []checklist.Category{
				{Name: "Cervejas", Items: []checklist.Item{
					priceItem("Amstel 600ml - Informe o valor e anexe a foto", "R$ 10,50"),
					priceItem("Eisenbahn 600ml - Informe o valor e anexe a foto:", "R$ 12,00"),
					priceItem("Sol LN - Informe o valor e anexe a foto;", "R$ 8,00"),
					photoItem("Foto da gôndola"),
					{Name: "Data da visita", Scale: 7},
				}},
			},
		},
	}

	prices := FilterPrices(Flatten(evals))

	require.Len(t, prices, 3)
	assert.Equal(t, "Amstel 600ml", prices[0].Product)
	assert.Equal(t, "Eisenbahn 600ml", prices[1].Product)
	assert.Equal(t, "Sol LN", prices[2].Product)

	for _, p := range prices {
		assert.Equal(t, "Santos", p.Store)
	}
}

func TestFilterPricesKeepsUnansweredRows(t *testing.T) {
	evals := []checklist.Evaluation{
		{
			Unit: checklist.NamedRef{Name: "Santos"},
			Categories: []checklist.Category{
				{Items: []checklist.Item{
					{Name: "Amstel 600ml", Scale: checklist.ScalePriceEntry, Answer: nil},
				}},
			},
		},
	}

	prices := FilterPrices(Flatten(evals))

	// The row survives with a nil answer; the sanitizer turns it into a
	// miss later instead of the row being dropped here.
	require.Len(t, prices, 1)
	assert.Nil(t, prices[0].RawAnswer)
}
