package renderer

import (
	"bytes"
	"fmt"

	"github.com/skatz510/foliosim"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the worth of the portfolio over time. With a
// non-zero last, only that many most recent rows are shown.
func HistoryMarkdown(sim *foliosim.Simulation, last int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	p := sim.Portfolio()
	doc.H1(fmt.Sprintf("Worth of %s invested", p.Amount))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Factor", "Worth"},
		Rows:   [][]string{},
	}
	worth := sim.Combined()
	skip := 0
	if last > 0 && worth.Len() > last {
		skip = worth.Len() - last
	}
	for day, factor := range worth.Values() {
		if skip > 0 {
			skip--
			continue
		}
		table.Rows = append(table.Rows, []string{
			day.String(),
			fmt.Sprintf("%.4f", factor),
			p.Amount.Mul(foliosim.W(factor)).String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// ScaledMarkdown renders one asset's price history rebased to 1.0, the view
// used to compare assets regardless of their price levels.
func ScaledMarkdown(sim *foliosim.Simulation, ticker string, last int) (string, error) {
	scaled, err := sim.Scaled(ticker)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Scaled prices for %s", ticker))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Date", "Scaled"},
		Rows:   [][]string{},
	}
	skip := 0
	if last > 0 && scaled.Len() > last {
		skip = scaled.Len() - last
	}
	for day, v := range scaled.Values() {
		if skip > 0 {
			skip--
			continue
		}
		table.Rows = append(table.Rows, []string{day.String(), fmt.Sprintf("%.4f", v)})
	}
	doc.Table(table)
	return doc.String(), nil
}
