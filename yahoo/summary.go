package yahoo

import (
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// Summary is the description of an asset: everything but its prices.
type Summary struct {
	Name     string
	Exchange string
	Currency string
	// Sectors maps a sector name to the fund's fraction invested in it.
	// Nil for single stocks, which carry no sector weightings.
	Sectors map[string]float64
}

// Summary fetches the asset description from the v10 quoteSummary endpoint.
//
// The response nests every field behind per-module objects and wraps numbers
// in {raw, fmt} pairs, so it is picked apart with jsonpath rather than typed
// structs.
func (c *Client) Summary(ticker string) (*Summary, error) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CsummaryDetail%%2CtopHoldings",
		c.base, url.PathEscape(ticker))

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", ticker, err)
	}

	s := &Summary{}
	var err error
	if s.Name, err = getString(jobj, "$.quoteSummary.result[0].price.shortName"); err != nil {
		return nil, fmt.Errorf("summary %q: %w", ticker, err)
	}
	// Exchange and currency are nice to have but some listings omit them.
	s.Exchange, _ = getString(jobj, "$.quoteSummary.result[0].price.exchangeName")
	if s.Currency, err = getString(jobj, "$.quoteSummary.result[0].price.currency"); err != nil {
		s.Currency, err = getString(jobj, "$.quoteSummary.result[0].summaryDetail.currency")
		if err != nil {
			return nil, fmt.Errorf("summary %q: no currency: %w", ticker, err)
		}
	}
	s.Sectors = sectorWeightings(jobj)
	return s, nil
}

// getString resolves a jsonpath to a single string.
func getString(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string: %v", path, jval)
	}
	return val, nil
}

// sectorWeightings flattens topHoldings.sectorWeightings:
//
//	"sectorWeightings": [
//	  {"technology": {"raw": 0.2774, "fmt": "27.74%"}},
//	  {"healthcare": {"raw": 0.1251, "fmt": "12.51%"}},
//	  ...
//	]
//
// Single stocks have no topHoldings module at all; that is not an error.
func sectorWeightings(jobj any) map[string]float64 {
	jval, err := jsonpath.Get("$.quoteSummary.result[0].topHoldings.sectorWeightings", jobj)
	if err != nil {
		return nil
	}
	jlist, ok := jval.([]any)
	if !ok || len(jlist) == 0 {
		return nil
	}
	sectors := make(map[string]float64, len(jlist))
	for _, entry := range jlist {
		weighting, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for sector, jraw := range weighting {
			pair, ok := jraw.(map[string]any)
			if !ok {
				continue
			}
			if raw, ok := pair["raw"].(float64); ok {
				sectors[sector] = raw
			}
		}
	}
	if len(sectors) == 0 {
		return nil
	}
	return sectors
}
