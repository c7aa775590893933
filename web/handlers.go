package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
	"github.com/skatz510/foliosim/quotedb"
)

// holdingPayload is one row of the dashboard's holdings table.
type holdingPayload struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Weight   float64 `json:"weight"`
	CAGR     float64 `json:"cagr"`
}

type portfolioPayload struct {
	Name     string           `json:"name"`
	Years    int              `json:"years"`
	Currency string           `json:"currency"`
	Amount   float64          `json:"amount"`
	CAGR     float64          `json:"cagr"`
	Holdings []holdingPayload `json:"holdings"`
}

// portfolioView builds the payload. Callers must hold at least the read lock.
func (s *Server) portfolioView() portfolioPayload {
	p := s.portfolio
	view := portfolioPayload{
		Name:     p.Name,
		Years:    p.Years,
		Currency: p.Amount.Currency(),
		Amount:   p.Amount.InexactFloat64(),
		CAGR:     float64(s.sim.PortfolioCAGR()),
	}
	for _, h := range p.Holdings() {
		a := s.sim.Asset(h.Ticker)
		view.Holdings = append(view.Holdings, holdingPayload{
			Ticker:   a.Ticker,
			Name:     a.Name,
			Currency: a.Currency,
			Weight:   h.Weight.InexactFloat64(),
			CAGR:     float64(a.CAGR()),
		})
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	view := s.portfolioView()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	if err := s.ensureAsset(r.Context(), req.Ticker); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if err := s.portfolio.Add(req.Ticker); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	view := s.portfolioView()
	s.mu.Unlock()

	s.hub.broadcast(event{Type: "portfolio", Portfolio: &view})
	writeJSON(w, http.StatusCreated, view)
}

// ensureAsset makes the ticker's market data available in the store,
// fetching it if needed. Callers must hold the write lock.
func (s *Server) ensureAsset(ctx context.Context, ticker string) error {
	_, err := s.store.LoadAsset(ctx, ticker)
	if err == nil {
		return nil
	}
	if !errors.Is(err, quotedb.ErrNotFound) {
		return err
	}
	if s.fetcher == nil {
		return errors.New("no market data for " + ticker + " and fetching is disabled")
	}
	s.metrics.fetches.Inc()
	a, err := s.fetcher.Fetch(ticker, date.LastYears(s.portfolio.Years), date.Weekly)
	if err != nil {
		return err
	}
	return s.store.SaveAsset(ctx, a)
}

func (s *Server) handleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")

	s.mu.Lock()
	if err := s.portfolio.Remove(ticker); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	view := s.portfolioView()
	s.mu.Unlock()

	s.hub.broadcast(event{Type: "portfolio", Portfolio: &view})
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var req map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	if err := s.applyWeights(req); err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view := s.portfolioView()
	s.mu.Unlock()

	s.hub.broadcast(event{Type: "portfolio", Portfolio: &view})
	writeJSON(w, http.StatusOK, view)
}

// applyWeights sets the given tickers' weights, keeping the others'
// proportions. Callers must hold the write lock.
func (s *Server) applyWeights(weights map[string]float64) error {
	p := s.portfolio
	next := make([]foliosim.Weight, 0, p.Len())
	for _, h := range p.Holdings() {
		if v, ok := weights[h.Ticker]; ok {
			next = append(next, foliosim.W(v))
		} else {
			next = append(next, h.Weight)
		}
	}
	return p.SetWeights(next)
}

// seriesPayload feeds the dashboard charts. All series are aligned on the
// same dates; a null means the asset had no data yet.
type seriesPayload struct {
	Dates    []string              `json:"dates"`
	Combined []float64             `json:"combined"`
	Worth    []float64             `json:"worth"`
	Scaled   map[string][]*float64 `json:"scaled"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload := seriesPayload{Scaled: make(map[string][]*float64)}
	combined := s.sim.Combined()
	amount := s.portfolio.Amount.InexactFloat64()

	scaled := make(map[string]*date.History[float64])
	for _, ticker := range s.portfolio.Tickers() {
		series, err := s.sim.Scaled(ticker)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		scaled[ticker] = series
	}

	for day, factor := range combined.Values() {
		payload.Dates = append(payload.Dates, day.String())
		payload.Combined = append(payload.Combined, factor)
		payload.Worth = append(payload.Worth, factor*amount)
		for ticker, series := range scaled {
			if v, ok := series.ValueAsOf(day); ok {
				value := v
				payload.Scaled[ticker] = append(payload.Scaled[ticker], &value)
			} else {
				payload.Scaled[ticker] = append(payload.Scaled[ticker], nil)
			}
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

type exposurePayload struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	toPayload := func(split foliosim.Split) []exposurePayload {
		out := make([]exposurePayload, 0, len(split))
		for _, e := range split {
			out = append(out, exposurePayload{Label: e.Label, Weight: e.Weight.InexactFloat64()})
		}
		return out
	}
	writeJSON(w, http.StatusOK, map[string][]exposurePayload{
		"currency": toPayload(s.sim.CurrencySplit()),
		"sector":   toPayload(s.sim.SectorSplit()),
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := foliosim.SavePortfolio(s.path, s.portfolio); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("portfolio saved", "path", s.path)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
