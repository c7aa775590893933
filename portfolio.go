package foliosim

import (
	"fmt"
	"slices"
)

// DefaultYears is the default look-back period for price history.
const DefaultYears = 10

// Holding is one asset of the portfolio basket: a ticker and its weight.
type Holding struct {
	Ticker string
	Weight Weight
}

// Portfolio is a named basket of assets with weights.
//
// Weights are normalized on every mutation so they always sum to exactly one.
type Portfolio struct {
	Name     string // A user-chosen label for the basket.
	Years    int    // Look-back period for price history, in years.
	Amount   Money  // Initial investment, used to scale the worth series.
	holdings []Holding
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio(name string, years int, amount Money) *Portfolio {
	if years <= 0 {
		years = DefaultYears
	}
	return &Portfolio{Name: name, Years: years, Amount: amount}
}

// Len returns the number of holdings.
func (p *Portfolio) Len() int { return len(p.holdings) }

// Holdings returns a copy of the holdings in portfolio order.
func (p *Portfolio) Holdings() []Holding {
	return slices.Clone(p.holdings)
}

// Tickers returns the tickers in portfolio order.
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, len(p.holdings))
	for i, h := range p.holdings {
		tickers[i] = h.Ticker
	}
	return tickers
}

// Weight returns the weight of a ticker, or false if the ticker is not held.
func (p *Portfolio) Weight(ticker string) (Weight, bool) {
	for _, h := range p.holdings {
		if h.Ticker == ticker {
			return h.Weight, true
		}
	}
	return Weight{}, false
}

func (p *Portfolio) index(ticker string) int {
	return slices.IndexFunc(p.holdings, func(h Holding) bool { return h.Ticker == ticker })
}

// Add appends a new asset to the basket. All weights are re-equalized, as
// there is no meaningful weight to give a newcomer.
func (p *Portfolio) Add(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("ticker is empty")
	}
	if p.index(ticker) >= 0 {
		return fmt.Errorf("ticker %q already in portfolio", ticker)
	}
	p.holdings = append(p.holdings, Holding{Ticker: ticker})
	p.Equalize()
	return nil
}

// Remove deletes an asset from the basket and renormalizes the remaining
// weights so they keep their relative proportions.
func (p *Portfolio) Remove(ticker string) error {
	i := p.index(ticker)
	if i < 0 {
		return fmt.Errorf("ticker %q not in portfolio", ticker)
	}
	p.holdings = slices.Delete(p.holdings, i, i+1)
	p.normalize()
	return nil
}

// SetWeights replaces all weights, in portfolio order. The weights are
// normalized; they need not sum to one but must be non-negative and not all
// zero.
func (p *Portfolio) SetWeights(weights []Weight) error {
	if len(weights) != len(p.holdings) {
		return fmt.Errorf("got %d weights for %d holdings", len(weights), len(p.holdings))
	}
	total := Weight{}
	for i, w := range weights {
		if w.IsNegative() {
			return fmt.Errorf("weight for %q is negative: %s", p.holdings[i].Ticker, w)
		}
		total = total.Add(w)
	}
	if len(weights) > 0 && total.IsZero() {
		return fmt.Errorf("all weights are zero")
	}
	for i, w := range Normalize(weights) {
		p.holdings[i].Weight = w
	}
	return nil
}

// SetWeight updates the weight of a single ticker and renormalizes.
func (p *Portfolio) SetWeight(ticker string, w Weight) error {
	i := p.index(ticker)
	if i < 0 {
		return fmt.Errorf("ticker %q not in portfolio", ticker)
	}
	if w.IsNegative() {
		return fmt.Errorf("weight for %q is negative: %s", ticker, w)
	}
	p.holdings[i].Weight = w
	p.normalize()
	return nil
}

// SetPeriod sets the look-back period in years.
func (p *Portfolio) SetPeriod(years int) error {
	if years <= 0 {
		return fmt.Errorf("invalid period %d, want a positive number of years", years)
	}
	p.Years = years
	return nil
}

// Equalize assigns every holding the same weight.
func (p *Portfolio) Equalize() {
	for i, w := range EqualWeights(len(p.holdings)) {
		p.holdings[i].Weight = w
	}
}

// normalize rescales the current weights to sum to one. If all weights are
// zero (e.g. after removing the only weighted asset) it falls back to equal
// weighting.
func (p *Portfolio) normalize() {
	if len(p.holdings) == 0 {
		return
	}
	weights := make([]Weight, len(p.holdings))
	total := Weight{}
	for i, h := range p.holdings {
		weights[i] = h.Weight
		total = total.Add(h.Weight)
	}
	if total.IsZero() {
		p.Equalize()
		return
	}
	for i, w := range Normalize(weights) {
		p.holdings[i].Weight = w
	}
}

// Validate checks the portfolio invariants: unique non-empty tickers and
// non-negative weights summing to one (for a non-empty basket).
func (p *Portfolio) Validate() error {
	seen := make(map[string]struct{}, len(p.holdings))
	total := Weight{}
	for _, h := range p.holdings {
		if h.Ticker == "" {
			return fmt.Errorf("holding with empty ticker")
		}
		if _, ok := seen[h.Ticker]; ok {
			return fmt.Errorf("duplicate ticker %q", h.Ticker)
		}
		seen[h.Ticker] = struct{}{}
		if h.Weight.IsNegative() {
			return fmt.Errorf("weight for %q is negative: %s", h.Ticker, h.Weight)
		}
		total = total.Add(h.Weight)
	}
	if len(p.holdings) > 0 && !total.Equal(W(1)) {
		return fmt.Errorf("weights sum to %s, want 1", total)
	}
	return nil
}
