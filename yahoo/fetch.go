package yahoo

import (
	"fmt"

	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
)

// Fetch downloads an asset's description and its price history over the
// given range.
func (c *Client) Fetch(ticker string, rng date.Range, interval date.Interval) (*foliosim.Asset, error) {
	summary, err := c.Summary(ticker)
	if err != nil {
		return nil, err
	}
	prices, err := c.Chart(ticker, rng, interval)
	if err != nil {
		return nil, err
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("no prices for %q between %s and %s", ticker, rng.From, rng.To)
	}
	return &foliosim.Asset{
		Ticker:   ticker,
		Name:     summary.Name,
		Exchange: summary.Exchange,
		Currency: summary.Currency,
		Sectors:  summary.Sectors,
		Prices:   prices,
	}, nil
}
