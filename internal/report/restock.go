package report

import (
	"sort"
	"time"

	"github.com/finanzas-app/backend/internal/model"
)

// RestockForecast is one item predicted to be repurchased next month.
type RestockForecast struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	GapMonths     int     `json:"gap_months"`
	ProjectedQty  float64 `json:"projected_next_month_qty"`
	ProjectedCost float64 `json:"projected_next_month_cost"`
}

// cadenceProfile accumulates one item's purchase history.
type cadenceProfile struct {
	itemID     string
	itemName   string
	qtyByMonth map[int]float64 // month index -> quantity purchased

	lastDate   time.Time
	lastNet    float64
	lastRate   float64
	lastExempt bool
}

// ForecastRestock predicts which items are due for repurchase in the month
// after ref, from purchase rows already limited to the trailing window.
//
// The cadence is the statistical mode of the gaps between distinct purchase
// months; ties pick the smaller gap, favoring the more frequent repurchase
// assumption. An item is surfaced only when its last purchase month plus
// the typical gap lands exactly on next month; no tolerance window applies.
// Quantity carries the last active month forward and cost uses the most
// recent tax-inclusive unit price snapshot.
func ForecastRestock(purchases []*model.ItemPurchase, ref time.Time) []RestockForecast {
	profiles := make(map[string]*cadenceProfile)
	for _, p := range purchases {
		if p.StabilityType == model.StabilityOccasional {
			continue
		}
		prof, ok := profiles[p.ItemID]
		if !ok {
			prof = &cadenceProfile{
				itemID:     p.ItemID,
				itemName:   p.ItemName,
				qtyByMonth: make(map[int]float64),
			}
			profiles[p.ItemID] = prof
		}
		prof.qtyByMonth[MonthIndexOf(p.Date)] += p.Quantity
		if !p.Date.Before(prof.lastDate) {
			prof.lastDate = p.Date
			prof.lastNet = p.UnitPriceNet
			prof.lastRate = p.TaxRateUsed
			prof.lastExempt = p.IsExemptUsed
		}
	}

	nextMonth := MonthIndexOf(ref) + 1

	var forecasts []RestockForecast
	for _, prof := range profiles {
		months := make([]int, 0, len(prof.qtyByMonth))
		for m := range prof.qtyByMonth {
			months = append(months, m)
		}
		// A single purchase month cannot support a cadence inference.
		if len(months) < 2 {
			continue
		}
		sort.Ints(months)

		gaps := make([]int, 0, len(months)-1)
		for i := 1; i < len(months); i++ {
			gaps = append(gaps, months[i]-months[i-1])
		}
		gap := typicalGap(gaps)

		lastMonth := months[len(months)-1]
		if lastMonth+gap != nextMonth {
			continue
		}

		qty := prof.qtyByMonth[lastMonth]
		unitGross := GrossAmount(prof.lastNet, 1, prof.lastRate, prof.lastExempt)
		forecasts = append(forecasts, RestockForecast{
			ItemID:        prof.itemID,
			ItemName:      prof.itemName,
			GapMonths:     gap,
			ProjectedQty:  qty,
			ProjectedCost: Round2(qty * unitGross),
		})
	}

	sort.Slice(forecasts, func(i, j int) bool {
		if forecasts[i].ProjectedCost != forecasts[j].ProjectedCost {
			return forecasts[i].ProjectedCost > forecasts[j].ProjectedCost
		}
		return forecasts[i].ItemName < forecasts[j].ItemName
	})
	return forecasts
}

// typicalGap returns the statistical mode of the gap sequence. When two gap
// values tie on frequency the smaller one wins.
func typicalGap(gaps []int) int {
	counts := make(map[int]int, len(gaps))
	for _, g := range gaps {
		counts[g]++
	}
	best, bestCount := 0, 0
	for g, c := range counts {
		if c > bestCount || (c == bestCount && g < best) {
			best, bestCount = g, c
		}
	}
	return best
}
