package yahoo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skatz510/foliosim/date"
)

// 2024-01-01, 2024-01-08 and 2024-01-15 at midnight UTC.
const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "VTI"},
      "timestamp": [1704067200, 1704672000, 1705276800],
      "indicators": {"adjclose": [{"adjclose": [230.5, null, 241.2]}]}
    }],
    "error": null
  }
}`

const chartErrorBody = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {"shortName": "Vanguard Total Stock Market ETF", "exchangeName": "PCX", "currency": "USD"},
      "summaryDetail": {"currency": "USD"},
      "topHoldings": {
        "sectorWeightings": [
          {"technology": {"raw": 0.2774, "fmt": "27.74%"}},
          {"healthcare": {"raw": 0.1251, "fmt": "12.51%"}}
        ]
      }
    }],
    "error": null
  }
}`

const stockSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {"shortName": "NVIDIA Corporation", "exchangeName": "NMS", "currency": "USD"}
    }],
    "error": null
  }
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{http: srv.Client(), base: srv.URL}
}

func TestChart(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/VTI") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("interval"); got != "1wk" {
			t.Errorf("interval = %q, want 1wk", got)
		}
		w.Write([]byte(chartBody))
	})

	rng := date.NewRange(date.New(2024, time.January, 1), date.New(2024, time.February, 1))
	prices, err := c.Chart("VTI", rng, date.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	// The null price is skipped, not recorded as zero.
	if prices.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", prices.Len())
	}
	day, v := prices.First()
	if want := date.New(2024, time.January, 1); day != want {
		t.Errorf("First() day = %s, want %s", day, want)
	}
	if v != 230.5 {
		t.Errorf("First() value = %v, want 230.5", v)
	}
	day, v = prices.Latest()
	if want := date.New(2024, time.January, 15); day != want {
		t.Errorf("Latest() day = %s, want %s", day, want)
	}
	if v != 241.2 {
		t.Errorf("Latest() value = %v, want 241.2", v)
	}
}

func TestChartError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartErrorBody))
	})
	if _, err := c.Chart("NOPE", date.LastYears(1), date.Weekly); err == nil {
		t.Fatal("expected an error for a delisted symbol")
	}
}

func TestSummary(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/VTI") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(summaryBody))
	})

	s, err := c.Summary("VTI")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "Vanguard Total Stock Market ETF" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Exchange != "PCX" || s.Currency != "USD" {
		t.Errorf("Exchange = %q, Currency = %q", s.Exchange, s.Currency)
	}
	if len(s.Sectors) != 2 || s.Sectors["technology"] != 0.2774 {
		t.Errorf("Sectors = %v", s.Sectors)
	}
}

func TestSummaryStock(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stockSummaryBody))
	})

	s, err := c.Summary("NVDA")
	if err != nil {
		t.Fatal(err)
	}
	// Single stocks have no topHoldings module.
	if s.Sectors != nil {
		t.Errorf("Sectors = %v, want nil", s.Sectors)
	}
}

func TestFetch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v10/"):
			w.Write([]byte(summaryBody))
		case strings.HasPrefix(r.URL.Path, "/v8/"):
			w.Write([]byte(chartBody))
		default:
			http.NotFound(w, r)
		}
	})

	a, err := c.Fetch("VTI", date.LastYears(10), date.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if a.Ticker != "VTI" || a.Currency != "USD" || a.Prices.Len() != 2 {
		t.Errorf("Fetch() = %+v", a)
	}
}
