package foliosim

import (
	"fmt"

	"github.com/skatz510/foliosim/date"
)

// Simulation computes the behavior of a portfolio over its assets' price
// histories. It is a stateless calculator: every series is derived on the
// fly from the portfolio weights and the asset data.
type Simulation struct {
	portfolio *Portfolio
	assets    map[string]*Asset
}

// NewSimulation pairs a portfolio with the market data of its assets.
// Every holding must have a matching asset.
func NewSimulation(p *Portfolio, assets []*Asset) (*Simulation, error) {
	index := make(map[string]*Asset, len(assets))
	for _, a := range assets {
		index[a.Ticker] = a
	}
	for _, h := range p.Holdings() {
		if _, ok := index[h.Ticker]; !ok {
			return nil, fmt.Errorf("no market data for %q", h.Ticker)
		}
	}
	return &Simulation{portfolio: p, assets: index}, nil
}

// Portfolio returns the underlying portfolio.
func (s *Simulation) Portfolio() *Portfolio { return s.portfolio }

// Asset returns the market data for a held ticker, or nil.
func (s *Simulation) Asset(ticker string) *Asset { return s.assets[ticker] }

// Scaled returns the asset's price series rebased to 1.0 at its first known
// price.
func (s *Simulation) Scaled(ticker string) (*date.History[float64], error) {
	a, ok := s.assets[ticker]
	if !ok {
		return nil, fmt.Errorf("no market data for %q", ticker)
	}
	return a.Scaled(), nil
}

// Combined returns the portfolio worth as a fraction of its initial worth:
// for each date, the sum over assets of weight times the scaled price as of
// that date. Gaps in an asset's series are forward-filled; before an asset's
// first data point it contributes nothing.
func (s *Simulation) Combined() *date.History[float64] {
	combined := new(date.History[float64])
	holdings := s.portfolio.Holdings()
	if len(holdings) == 0 {
		return combined
	}

	scaled := make([]*date.History[float64], len(holdings))
	for i, h := range holdings {
		scaled[i] = s.assets[h.Ticker].Scaled()
	}

	for on := range date.Iterate(scaled...) {
		var worth float64
		for i, h := range holdings {
			if v, ok := scaled[i].ValueAsOf(on); ok {
				worth += h.Weight.InexactFloat64() * v
			}
		}
		combined.Append(on, worth)
	}
	return combined
}

// Worth returns the combined series scaled by the initial investment amount,
// in the portfolio's reporting currency.
func (s *Simulation) Worth() *date.History[float64] {
	worth := new(date.History[float64])
	amount := s.portfolio.Amount.InexactFloat64()
	for on, v := range s.Combined().Values() {
		worth.Append(on, v*amount)
	}
	return worth
}

// CAGR returns the compound annual growth rate of a single held asset.
func (s *Simulation) CAGR(ticker string) (Percent, error) {
	a, ok := s.assets[ticker]
	if !ok {
		return 0, fmt.Errorf("no market data for %q", ticker)
	}
	return a.CAGR(), nil
}

// PortfolioCAGR returns the weighted sum of the assets' growth rates.
func (s *Simulation) PortfolioCAGR() Percent {
	var total float64
	for _, h := range s.portfolio.Holdings() {
		total += h.Weight.InexactFloat64() * float64(s.assets[h.Ticker].CAGR())
	}
	return Percent(total)
}
