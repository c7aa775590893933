package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/skatz510/foliosim/renderer"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the portfolio summary" }
func (*showCmd) Usage() string {
	return `show

  Displays the holdings with their weights and growth rates.

`
}
func (*showCmd) SetFlags(_ *flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sim, store, err := LoadSimulation(ctx)
	if err != nil {
		return fail(err)
	}
	defer store.Close()
	printMarkdown(renderer.SummaryMarkdown(sim))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	ticker string
	last   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the simulated worth over time" }
func (*historyCmd) Usage() string {
	return `history [-t <ticker>] [-last <n>]

  Displays the worth of the portfolio over time, or with -t the scaled
  price history of a single holding.

`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker to report on, the whole portfolio by default")
	f.IntVar(&c.last, "last", 0, "only show the n most recent rows")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sim, store, err := LoadSimulation(ctx)
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	if c.ticker == "" {
		printMarkdown(renderer.HistoryMarkdown(sim, c.last))
		return subcommands.ExitSuccess
	}
	doc, err := renderer.ScaledMarkdown(sim, c.ticker, c.last)
	if err != nil {
		return fail(err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

type exposureCmd struct {
	by string
}

func (*exposureCmd) Name() string     { return "exposure" }
func (*exposureCmd) Synopsis() string { return "display the currency and sector exposures" }
func (*exposureCmd) Usage() string {
	return `exposure [-by currency|sector]

  Displays how the portfolio weight distributes over trading currencies
  and industry sectors.

`
}

func (c *exposureCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.by, "by", "", "only one breakdown: currency or sector")
}

func (c *exposureCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sim, store, err := LoadSimulation(ctx)
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	switch c.by {
	case "currency":
		printMarkdown(renderer.ExposureMarkdown("Currency Exposure", sim.CurrencySplit()))
	case "sector":
		printMarkdown(renderer.ExposureMarkdown("Sector Exposure", sim.SectorSplit()))
	case "":
		printMarkdown(renderer.ExposureMarkdown("Currency Exposure", sim.CurrencySplit()))
		printMarkdown(renderer.ExposureMarkdown("Sector Exposure", sim.SectorSplit()))
	default:
		fmt.Fprintf(os.Stderr, "unknown breakdown %q, want currency or sector\n", c.by)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

type cagrCmd struct{}

func (*cagrCmd) Name() string     { return "cagr" }
func (*cagrCmd) Synopsis() string { return "display the compound annual growth rates" }
func (*cagrCmd) Usage() string {
	return `cagr

  Displays the compound annual growth rate of each holding and of the
  whole basket.

`
}
func (*cagrCmd) SetFlags(_ *flag.FlagSet) {}

func (c *cagrCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sim, store, err := LoadSimulation(ctx)
	if err != nil {
		return fail(err)
	}
	defer store.Close()
	printMarkdown(renderer.CAGRMarkdown(sim))
	return subcommands.ExitSuccess
}
