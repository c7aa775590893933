package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
	"github.com/skatz510/foliosim/quotedb"
)

// stubFetcher serves canned assets, like a provider would.
type stubFetcher struct {
	assets map[string]*foliosim.Asset
}

func (f *stubFetcher) Fetch(ticker string, rng date.Range, interval date.Interval) (*foliosim.Asset, error) {
	a, ok := f.assets[ticker]
	if !ok {
		return nil, fmt.Errorf("no prices for %q", ticker)
	}
	return a, nil
}

func makeAsset(ticker, currency string, prices map[date.Date]float64) *foliosim.Asset {
	a := &foliosim.Asset{Ticker: ticker, Name: ticker + " Fund", Currency: currency,
		Sectors: map[string]float64{"technology": 0.5, "healthcare": 0.5}}
	for on, price := range prices {
		a.Prices.Append(on, price)
	}
	return a
}

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	d1 := date.New(2023, time.January, 2)
	d2 := date.New(2024, time.January, 1)
	vti := makeAsset("VTI", "USD", map[date.Date]float64{d1: 100, d2: 120})
	bnd := makeAsset("BND", "USD", map[date.Date]float64{d1: 70, d2: 70})
	vxus := makeAsset("VXUS", "EUR", map[date.Date]float64{d1: 50, d2: 55})

	store, err := quotedb.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	for _, a := range []*foliosim.Asset{vti, bnd} {
		if err := store.SaveAsset(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	p := foliosim.NewPortfolio("core", 10, foliosim.M(1000, "USD"))
	p.Add("VTI")
	p.Add("BND")

	s, err := New(Config{
		Addr:          "localhost:0",
		PortfolioPath: filepath.Join(t.TempDir(), "portfolio.jsonl"),
		Portfolio:     p,
		Store:         store,
		Fetcher:       &stubFetcher{assets: map[string]*foliosim.Asset{"VXUS": vxus}},
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func getPortfolio(t *testing.T, srv *httptest.Server) portfolioPayload {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/portfolio")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var p portfolioPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHealthz(t *testing.T) {
	_, srv := testServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGetPortfolio(t *testing.T) {
	_, srv := testServer(t)
	p := getPortfolio(t, srv)
	if p.Name != "core" || len(p.Holdings) != 2 {
		t.Fatalf("portfolio = %+v", p)
	}
	if p.Holdings[0].Weight != 0.5 {
		t.Errorf("weight = %v, want 0.5", p.Holdings[0].Weight)
	}
}

func TestAddAndRemoveHolding(t *testing.T) {
	_, srv := testServer(t)

	// VXUS is not in the store, so the stub fetcher is exercised.
	resp, err := http.Post(srv.URL+"/api/portfolio/holdings", "application/json",
		bytes.NewBufferString(`{"ticker":"VXUS"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if p := getPortfolio(t, srv); len(p.Holdings) != 3 {
		t.Fatalf("holdings = %+v", p.Holdings)
	}

	// An unknown ticker that the fetcher cannot serve is a bad gateway.
	resp, err = http.Post(srv.URL+"/api/portfolio/holdings", "application/json",
		bytes.NewBufferString(`{"ticker":"NOPE"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/portfolio/holdings/VXUS", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if p := getPortfolio(t, srv); len(p.Holdings) != 2 {
		t.Fatalf("holdings after remove = %+v", p.Holdings)
	}
}

func TestSetWeights(t *testing.T) {
	_, srv := testServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/portfolio/weights",
		bytes.NewBufferString(`{"VTI":3,"BND":1}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p portfolioPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Holdings[0].Weight != 0.75 || p.Holdings[1].Weight != 0.25 {
		t.Errorf("weights = %v %v, want 0.75 0.25", p.Holdings[0].Weight, p.Holdings[1].Weight)
	}
}

func TestSeries(t *testing.T) {
	_, srv := testServer(t)
	resp, err := http.Get(srv.URL + "/api/series")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var payload seriesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Dates) != 2 || len(payload.Worth) != 2 {
		t.Fatalf("series = %+v", payload)
	}
	// 1000 * (0.5*1.0 + 0.5*1.0) on the first date.
	if payload.Worth[0] != 1000 {
		t.Errorf("worth[0] = %v, want 1000", payload.Worth[0])
	}
	if len(payload.Scaled["VTI"]) != 2 || *payload.Scaled["VTI"][1] != 1.2 {
		t.Errorf("scaled VTI = %v", payload.Scaled["VTI"])
	}
}

func TestExposure(t *testing.T) {
	_, srv := testServer(t)
	resp, err := http.Get(srv.URL + "/api/exposure")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var payload map[string][]exposurePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if len(payload["currency"]) != 1 || payload["currency"][0].Label != "USD" {
		t.Errorf("currency exposure = %v", payload["currency"])
	}
	if len(payload["sector"]) != 2 {
		t.Errorf("sector exposure = %v", payload["sector"])
	}
}

func TestSave(t *testing.T) {
	s, srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/save", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	saved, err := foliosim.LoadPortfolio(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Name != "core" || saved.Len() != 2 {
		t.Errorf("saved portfolio = %+v", saved)
	}
}

func TestWebsocketWeights(t *testing.T) {
	_, srv := testServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "weights", Weights: map[string]float64{"VTI": 1, "BND": 3}}); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var e event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatal(err)
	}
	if e.Type != "portfolio" || e.Portfolio == nil {
		t.Fatalf("event = %+v", e)
	}
	if e.Portfolio.Holdings[0].Weight != 0.25 {
		t.Errorf("broadcast weight = %v, want 0.25", e.Portfolio.Holdings[0].Weight)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "foliosim_websocket_updates_total 1") {
		t.Error("websocket update not counted in /metrics")
	}
}

// Weight updates arrive over the socket and the REST API at the same time;
// every connected client must still receive well-formed events.
func TestWebsocketConcurrentWeights(t *testing.T) {
	_, srv := testServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	var conns []*websocket.Conn
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()
		conns = append(conns, conn)

		// Each reader drains events until it sees the final 50/50 split.
		go func(conn *websocket.Conn) {
			conn.SetReadDeadline(time.Now().Add(10 * time.Second))
			for {
				var e event
				if err := conn.ReadJSON(&e); err != nil {
					results <- err
					return
				}
				if e.Portfolio != nil && e.Portfolio.Holdings[0].Weight == 0.5 {
					results <- nil
					return
				}
			}
		}(conn)
	}

	putWeights := func(body string) error {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/portfolio/weights",
			bytes.NewBufferString(body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status = %d", resp.StatusCode)
		}
		return nil
	}

	// REST updates run in parallel with socket updates, so the server
	// broadcasts to both clients from several goroutines at once.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := putWeights(fmt.Sprintf(`{"VTI":%d,"BND":1}`, i+1)); err != nil {
				t.Error(err)
			}
		}(i)
		conn := conns[i%len(conns)]
		err := conn.WriteJSON(wsRequest{Type: "weights", Weights: map[string]float64{"VTI": 1, "BND": float64(i + 1)}})
		if err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()

	if err := putWeights(`{"VTI":1,"BND":1}`); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			t.Errorf("client %d: %v", i, err)
		}
	}
}
