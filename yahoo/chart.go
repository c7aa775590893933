package yahoo

import (
	"fmt"
	"net/url"

	"github.com/skatz510/foliosim/date"
)

// interval codes of the v8 chart endpoint.
func intervalCode(i date.Interval) string {
	switch i {
	case date.Daily:
		return "1d"
	case date.Monthly:
		return "1mo"
	default:
		return "1wk"
	}
}

// Chart returns the adjusted closing prices for a ticker over a date range.
//
//	https://query1.finance.yahoo.com/v8/finance/chart/VTI?period1=...&period2=...&interval=1wk&events=div%7Csplit
//	{
//	  "chart": {
//	    "result": [{
//	      "timestamp": [1672704000, ...],
//	      "indicators": {"adjclose": [{"adjclose": [191.48, null, ...]}]}
//	    }],
//	    "error": null
//	  }
//	}
//
// Weeks the asset did not trade come back as null and are skipped; lookups
// are expected to forward-fill over them.
func (c *Client) Chart(ticker string, rng date.Range, interval date.Interval) (prices date.History[float64], err error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&events=div%%7Csplit",
		c.base, url.PathEscape(ticker), rng.From.Unix(), rng.To.Unix(), intervalCode(interval))

	// that's the payload
	var content struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Adjclose []struct {
						Adjclose []*float64 `json:"adjclose"`
					} `json:"adjclose"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := jwget(c.http, addr, &content); err != nil {
		return prices, err
	}
	if e := content.Chart.Error; e != nil {
		return prices, fmt.Errorf("chart %q: %s: %s", ticker, e.Code, e.Description)
	}
	if len(content.Chart.Result) == 0 || len(content.Chart.Result[0].Indicators.Adjclose) == 0 {
		return prices, fmt.Errorf("chart %q: empty result", ticker)
	}

	result := content.Chart.Result[0]
	closes := result.Indicators.Adjclose[0].Adjclose
	if len(closes) != len(result.Timestamp) {
		return prices, fmt.Errorf("chart %q: %d prices for %d timestamps", ticker, len(closes), len(result.Timestamp))
	}
	for i, sec := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		prices.Append(date.FromUnix(sec), *closes[i])
	}
	return prices, nil
}
