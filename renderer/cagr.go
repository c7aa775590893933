package renderer

import (
	"bytes"

	"github.com/skatz510/foliosim"
	md "github.com/nao1215/markdown"
)

// CAGRMarkdown renders the compound annual growth rate of each holding and
// of the whole basket.
func CAGRMarkdown(sim *foliosim.Simulation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Compound Annual Growth Rate")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Weight", "CAGR"},
		Rows:   [][]string{},
	}
	for _, h := range sim.Portfolio().Holdings() {
		table.Rows = append(table.Rows, []string{
			h.Ticker,
			h.Weight.Percent().String(),
			sim.Asset(h.Ticker).CAGR().SignedString(),
		})
	}
	table.Rows = append(table.Rows, []string{"*Portfolio*", "100.00%", sim.PortfolioCAGR().SignedString()})
	doc.Table(table)
	return doc.String()
}
