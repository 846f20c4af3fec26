package engine

import "github.com/phenrril/gatequote/internal/domain"

// Totals is the derived cost breakdown for a quote. It is never stored as
// independent state: recomposing from the same inputs always yields the same
// result.
type Totals struct {
	MaterialsCost       float64 `json:"materials_cost"`
	LaborCost           float64 `json:"labor_cost"`
	MaterialsWithMarkup float64 `json:"materials_with_markup"`
	Subtotal            float64 `json:"subtotal"`
	TaxAmount           float64 `json:"tax_amount"`
	Total               float64 `json:"total"`
}

// ComposeTotals prices a set of line items against labor and rates. Markup
// applies to materials only; tax applies to the subtotal. Nothing recomputes
// this implicitly: callers invoke it after any mutation they want reflected.
func ComposeTotals(items []domain.QuoteItem, laborHours, laborRate, markupPercent, taxRate float64) Totals {
	var t Totals
	for _, it := range items {
		t.MaterialsCost += it.TotalCost
	}
	t.LaborCost = laborHours * laborRate
	t.MaterialsWithMarkup = t.MaterialsCost * (1 + markupPercent/100)
	t.Subtotal = t.MaterialsWithMarkup + t.LaborCost
	t.TaxAmount = t.Subtotal * (taxRate / 100)
	t.Total = t.Subtotal + t.TaxAmount
	return t
}

// ApplyTotals copies a composed breakdown onto the quote's persisted snapshot.
func ApplyTotals(q *domain.Quote, t Totals) {
	q.MaterialsCost = t.MaterialsCost
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.TaxAmount
	q.Total = t.Total
}
