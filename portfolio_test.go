package foliosim

import "testing"

func TestPortfolioAdd(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	for _, ticker := range []string{"VTI", "VXUS", "BND"} {
		if err := p.Add(ticker); err != nil {
			t.Fatalf("Add(%q): %v", ticker, err)
		}
	}
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() after adds: %v", err)
	}
	// Adding re-equalizes, so every holding carries the same weight.
	w0, _ := p.Weight("VTI")
	for _, ticker := range []string{"VXUS", "BND"} {
		w, ok := p.Weight(ticker)
		if !ok || !w.Equal(w0) {
			t.Errorf("Weight(%q) = %s, want %s", ticker, w, w0)
		}
	}
	if err := p.Add("VTI"); err == nil {
		t.Error("Add of duplicate ticker should fail")
	}
	if err := p.Add(""); err == nil {
		t.Error("Add of empty ticker should fail")
	}
}

func TestPortfolioRemove(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	p.Add("VTI")
	p.Add("VXUS")
	p.Add("BND")
	if err := p.SetWeights([]Weight{W(0.5), W(0.3), W(0.2)}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}

	if err := p.Remove("BND"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() after remove: %v", err)
	}
	// 0.5/0.3 renormalized keep their 5:3 proportion.
	vti, _ := p.Weight("VTI")
	vxus, _ := p.Weight("VXUS")
	if !vti.Mul(W(3)).Equal(vxus.Mul(W(5))) {
		t.Errorf("weights lost their proportion: VTI=%s VXUS=%s", vti, vxus)
	}

	if err := p.Remove("BND"); err == nil {
		t.Error("Remove of an unknown ticker should fail")
	}
}

func TestSetWeights(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	p.Add("VTI")
	p.Add("VXUS")
	p.Add("BND")

	// Proportions, not fractions: 2/1/1 means half in the first asset.
	if err := p.SetWeights([]Weight{W(2), W(1), W(1)}); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	want := map[string]Weight{"VTI": W(0.5), "VXUS": W(0.25), "BND": W(0.25)}
	for ticker, expected := range want {
		if w, _ := p.Weight(ticker); !w.Equal(expected) {
			t.Errorf("Weight(%q) = %s, want %s", ticker, w, expected)
		}
	}

	cases := []struct {
		name    string
		weights []Weight
	}{
		{"count mismatch", []Weight{W(1), W(1)}},
		{"negative weight", []Weight{W(1), W(-1), W(1)}},
		{"all zero", []Weight{W(0), W(0), W(0)}},
	}
	for _, c := range cases {
		if err := p.SetWeights(c.weights); err == nil {
			t.Errorf("SetWeights %s: expected an error", c.name)
		}
	}
}

func TestSetWeight(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	p.Add("VTI")
	p.Add("VXUS")
	p.SetWeights([]Weight{W(1), W(1)})

	// Overweighting one holding renormalizes the whole basket.
	if err := p.SetWeight("VTI", W(1.5)); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	if w, _ := p.Weight("VTI"); !w.Equal(W(0.75)) {
		t.Errorf("Weight(VTI) = %s, want 0.75", w)
	}
	if w, _ := p.Weight("VXUS"); !w.Equal(W(0.25)) {
		t.Errorf("Weight(VXUS) = %s, want 0.25", w)
	}

	if err := p.SetWeight("BND", W(1)); err == nil {
		t.Error("SetWeight on an unknown ticker should fail")
	}
	if err := p.SetWeight("VTI", W(-1)); err == nil {
		t.Error("SetWeight with a negative weight should fail")
	}
}

func TestNormalizeSumsToOne(t *testing.T) {
	// Thirds do not have an exact decimal representation, yet the
	// normalized set must still sum to exactly one.
	weights := Normalize([]Weight{W(1), W(1), W(1)})
	total := Weight{}
	for _, w := range weights {
		total = total.Add(w)
	}
	if !total.Equal(W(1)) {
		t.Errorf("normalized weights sum to %s, want exactly 1", total)
	}
}

func TestValidate(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	if err := p.Validate(); err != nil {
		t.Errorf("empty portfolio should be valid: %v", err)
	}

	p.holdings = []Holding{{Ticker: "VTI", Weight: W(0.5)}, {Ticker: "VTI", Weight: W(0.5)}}
	if err := p.Validate(); err == nil {
		t.Error("duplicate tickers should not validate")
	}

	p.holdings = []Holding{{Ticker: "VTI", Weight: W(0.5)}, {Ticker: "VXUS", Weight: W(0.4)}}
	if err := p.Validate(); err == nil {
		t.Error("weights summing below one should not validate")
	}
}

func TestSetPeriod(t *testing.T) {
	p := NewPortfolio("core", 10, M(500000, "USD"))
	if err := p.SetPeriod(5); err != nil {
		t.Fatalf("SetPeriod(5): %v", err)
	}
	if p.Years != 5 {
		t.Errorf("Years = %d, want 5", p.Years)
	}
	for _, bad := range []int{0, -3} {
		if err := p.SetPeriod(bad); err == nil {
			t.Errorf("SetPeriod(%d) should fail", bad)
		}
	}
}
