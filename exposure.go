package foliosim

import "sort"

// Exposure is the fraction of the portfolio attributed to one label, e.g. a
// currency or an industry sector.
type Exposure struct {
	Label  string
	Weight Weight
}

// Split is a weighted breakdown of the portfolio, sorted by decreasing
// weight then label.
type Split []Exposure

func (s Split) sort() {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Weight.Equal(s[j].Weight) {
			return s[j].Weight.LessThan(s[i].Weight)
		}
		return s[i].Label < s[j].Label
	})
}

// CurrencySplit is the portfolio weight mass per trading currency.
func (s *Simulation) CurrencySplit() Split {
	byCurrency := make(map[string]Weight)
	for _, h := range s.portfolio.Holdings() {
		currency := s.assets[h.Ticker].Currency
		byCurrency[currency] = byCurrency[currency].Add(h.Weight)
	}
	return collect(byCurrency)
}

// SectorSplit is the portfolio weight mass per industry sector: the sum over
// assets of the asset's weight times its fraction invested in the sector.
// Assets without sector weightings (single stocks) contribute nothing.
func (s *Simulation) SectorSplit() Split {
	bySector := make(map[string]Weight)
	for _, h := range s.portfolio.Holdings() {
		for sector, fraction := range s.assets[h.Ticker].Sectors {
			bySector[sector] = bySector[sector].Add(h.Weight.Mul(W(fraction)))
		}
	}
	return collect(bySector)
}

func collect(byLabel map[string]Weight) Split {
	split := make(Split, 0, len(byLabel))
	for label, w := range byLabel {
		split = append(split, Exposure{Label: label, Weight: w})
	}
	split.sort()
	return split
}
