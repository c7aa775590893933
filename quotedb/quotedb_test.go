package quotedb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAsset() *foliosim.Asset {
	a := &foliosim.Asset{
		Ticker:   "VTI",
		Name:     "Vanguard Total Stock Market ETF",
		Exchange: "PCX",
		Currency: "USD",
		Sectors:  map[string]float64{"technology": 0.2774, "healthcare": 0.1251},
	}
	a.Prices.Append(date.New(2024, time.January, 1), 230.5)
	a.Prices.Append(date.New(2024, time.January, 8), 233.1)
	a.Prices.Append(date.New(2024, time.January, 15), 241.2)
	return a
}

func TestSaveLoadAsset(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveAsset(ctx, testAsset()); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadAsset(ctx, "VTI")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Vanguard Total Stock Market ETF" || got.Currency != "USD" {
		t.Errorf("loaded asset %+v", got)
	}
	if got.Sectors["technology"] != 0.2774 {
		t.Errorf("Sectors = %v", got.Sectors)
	}
	if got.Prices.Len() != 3 {
		t.Fatalf("Prices.Len() = %d, want 3", got.Prices.Len())
	}
	day, v := got.Prices.Latest()
	if day != date.New(2024, time.January, 15) || v != 241.2 {
		t.Errorf("Latest() = %s %v", day, v)
	}
}

func TestSaveAssetReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveAsset(ctx, testAsset()); err != nil {
		t.Fatal(err)
	}
	// A refetch with a shorter history fully replaces the previous one.
	a := &foliosim.Asset{Ticker: "VTI", Name: "VTI", Currency: "USD"}
	a.Prices.Append(date.New(2024, time.February, 1), 250.0)
	if err := s.SaveAsset(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadAsset(ctx, "VTI")
	if err != nil {
		t.Fatal(err)
	}
	if got.Prices.Len() != 1 {
		t.Errorf("Prices.Len() = %d, want 1", got.Prices.Len())
	}
	if got.Sectors != nil {
		t.Errorf("Sectors = %v, want nil", got.Sectors)
	}
}

func TestLoadAssetNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.LoadAsset(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchedOn(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.SaveAsset(ctx, testAsset()); err != nil {
		t.Fatal(err)
	}
	on, err := s.FetchedOn(ctx, "VTI")
	if err != nil {
		t.Fatal(err)
	}
	if on != date.Today() {
		t.Errorf("FetchedOn() = %s, want today", on)
	}
	if _, err := s.FetchedOn(ctx, "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTickersAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveAsset(ctx, testAsset()); err != nil {
		t.Fatal(err)
	}
	b := &foliosim.Asset{Ticker: "BND", Name: "Bond ETF", Currency: "USD"}
	b.Prices.Append(date.New(2024, time.January, 1), 72.3)
	if err := s.SaveAsset(ctx, b); err != nil {
		t.Fatal(err)
	}

	tickers, err := s.Tickers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tickers) != 2 || tickers[0] != "BND" || tickers[1] != "VTI" {
		t.Errorf("Tickers() = %v", tickers)
	}

	if err := s.Delete(ctx, "BND"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadAsset(ctx, "BND"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}
