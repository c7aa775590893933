package renderer

import (
	"bytes"

	"github.com/skatz510/foliosim"
	md "github.com/nao1215/markdown"
)

// ExposureMarkdown renders a weighted breakdown, e.g. by currency or sector.
func ExposureMarkdown(title string, split foliosim.Split) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(split) == 0 {
		doc.PlainText("No data.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Label", "Weight"},
		Rows:   [][]string{},
	}
	for _, e := range split {
		table.Rows = append(table.Rows, []string{e.Label, e.Weight.Percent().String()})
	}
	doc.Table(table)
	return doc.String()
}
