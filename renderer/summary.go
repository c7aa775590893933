// Package renderer turns simulation results into markdown reports, suitable
// for the terminal or for pasting into notes.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/skatz510/foliosim"
	md "github.com/nao1215/markdown"
)

func SummaryMarkdown(sim *foliosim.Simulation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	p := sim.Portfolio()
	title := "Portfolio Summary"
	if p.Name != "" {
		title = fmt.Sprintf("Portfolio %q", p.Name)
	}
	doc.H1(title)
	doc.PlainText(fmt.Sprintf("Initial investment: %s over the last %d years", p.Amount, p.Years))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Name", "Currency", "Weight", "CAGR"},
		Rows:   [][]string{},
	}
	for _, h := range p.Holdings() {
		a := sim.Asset(h.Ticker)
		table.Rows = append(table.Rows, []string{
			a.Ticker,
			a.Name,
			a.Currency,
			h.Weight.Percent().String(),
			a.CAGR().SignedString(),
		})
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Weighted portfolio CAGR: %s", sim.PortfolioCAGR().SignedString()))
	return doc.String()
}
