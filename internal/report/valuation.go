package report

import (
	"math"

	"github.com/finanzas-app/backend/internal/model"
)

// GrossAmount computes the tax-inclusive amount for a line. Exemption always
// zeroes the tax regardless of the stored rate; a missing tax record shows
// up as rate 0 and is treated as untaxed rather than as an error.
func GrossAmount(netUnitPrice, quantity, taxRate float64, isExempt bool) float64 {
	if isExempt {
		taxRate = 0
	}
	return netUnitPrice * quantity * (1 + taxRate/100)
}

// LineAmount returns the gross amount of an item purchase. Shopping-list
// rows carry an authoritative LineTotalFinal precomputed (discount and tax
// included) at creation time; ad-hoc and legacy rows are recomputed on read.
func LineAmount(p *model.ItemPurchase) float64 {
	if p.LineTotalFinal != nil {
		return *p.LineTotalFinal
	}
	return GrossAmount(p.UnitPriceNet, p.Quantity, p.TaxRateUsed, p.IsExemptUsed)
}

// Round2 rounds to 2 decimal places. Applied only at the presentation
// boundary; intermediate accumulation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
