package foliosim

import (
	"math"

	"github.com/skatz510/foliosim/date"
)

// Asset is a tradeable fund or stock with its description and price history.
type Asset struct {
	Ticker   string               // The human-friendly ticker used in the portfolio.
	Name     string               // The short name reported by the provider.
	Exchange string               // The exchange the asset trades on.
	Currency string               // The ISO 4217 currency the asset is priced in.
	Sectors  map[string]float64   // Sector name to fraction of the fund, for ETFs. Nil otherwise.
	Prices   date.History[float64] // Adjusted closing prices.
}

// Scaled returns the price series rebased so the first known price is 1.0.
//
// An empty history yields an empty series. Lookups between points are meant
// to go through History.ValueAsOf, which forward-fills gaps.
func (a *Asset) Scaled() *date.History[float64] {
	scaled := new(date.History[float64])
	_, first := a.Prices.First()
	if first == 0 {
		return scaled
	}
	for on, price := range a.Prices.Values() {
		scaled.Append(on, price/first)
	}
	return scaled
}

// CAGR is the compound annual growth rate over the asset's full price
// history: (end/start)^(365/days) - 1.
//
// A history with less than two points, or spanning less than a day, has a
// CAGR of zero.
func (a *Asset) CAGR() Percent {
	firstDay, first := a.Prices.First()
	lastDay, last := a.Prices.Latest()
	days := lastDay.Sub(firstDay)
	if days <= 0 || first <= 0 {
		return 0
	}
	rate := math.Pow(last/first, 365/float64(days)) - 1
	return Percent(rate * 100)
}
