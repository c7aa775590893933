package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/skatz510/foliosim"
)

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an asset to the portfolio" }
func (*addCmd) Usage() string {
	return `add <ticker>...

  Adds one or more assets to the basket. All weights are re-equalized.
  Run 'fsim fetch' afterwards to download the market data.

`
}
func (*addCmd) SetFlags(_ *flag.FlagSet) {}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one ticker is required")
		return subcommands.ExitUsageError
	}
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	for _, ticker := range f.Args() {
		if err := p.Add(ticker); err != nil {
			return fail(err)
		}
	}
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	fmt.Printf("Added %d holding(s), %d total. Run 'fsim fetch' to download market data.\n", f.NArg(), p.Len())
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove an asset from the portfolio" }
func (*rmCmd) Usage() string {
	return `rm <ticker>...

  Removes one or more assets from the basket. The remaining weights keep
  their relative proportions.

`
}
func (*rmCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one ticker is required")
		return subcommands.ExitUsageError
	}
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	for _, ticker := range f.Args() {
		if err := p.Remove(ticker); err != nil {
			return fail(err)
		}
	}
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	fmt.Printf("Removed %d holding(s), %d left.\n", f.NArg(), p.Len())
	return subcommands.ExitSuccess
}

type weightsCmd struct{}

func (*weightsCmd) Name() string     { return "weights" }
func (*weightsCmd) Synopsis() string { return "set the holdings' weights" }
func (*weightsCmd) Usage() string {
	return `weights <w>...

  Sets the weights, one per holding in portfolio order. The weights are
  proportions: they need not sum to one.

Usage Examples:
# Half in the first holding, a quarter in each of the two others.
$ fsim weights 2 1 1

`
}
func (*weightsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *weightsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	if f.NArg() != p.Len() {
		fmt.Fprintf(os.Stderr, "got %d weights for %d holdings\n", f.NArg(), p.Len())
		return subcommands.ExitUsageError
	}
	weights := make([]foliosim.Weight, 0, f.NArg())
	for _, arg := range f.Args() {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid weight %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		weights = append(weights, foliosim.W(v))
	}
	if err := p.SetWeights(weights); err != nil {
		return fail(err)
	}
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	for _, h := range p.Holdings() {
		fmt.Printf("%s\t%s\n", h.Ticker, h.Weight.Percent())
	}
	return subcommands.ExitSuccess
}

type equalizeCmd struct{}

func (*equalizeCmd) Name() string     { return "equalize" }
func (*equalizeCmd) Synopsis() string { return "give every holding the same weight" }
func (*equalizeCmd) Usage() string {
	return `equalize

  Assigns every holding the same weight.

`
}
func (*equalizeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *equalizeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	p.Equalize()
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	for _, h := range p.Holdings() {
		fmt.Printf("%s\t%s\n", h.Ticker, h.Weight.Percent())
	}
	return subcommands.ExitSuccess
}

type periodCmd struct{}

func (*periodCmd) Name() string     { return "period" }
func (*periodCmd) Synopsis() string { return "set the look-back period" }
func (*periodCmd) Usage() string {
	return `period <years>

  Sets the number of years of price history used by the simulation.
  Run 'fsim fetch -force' afterwards to download the new range.

`
}
func (*periodCmd) SetFlags(_ *flag.FlagSet) {}

func (c *periodCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one argument expected, the number of years")
		return subcommands.ExitUsageError
	}
	years, err := strconv.Atoi(f.Arg(0))
	if err != nil || years <= 0 {
		fmt.Fprintf(os.Stderr, "invalid number of years %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	if err := p.SetPeriod(years); err != nil {
		return fail(err)
	}
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	fmt.Printf("Period set to %d years. Run 'fsim fetch -force' to download the new range.\n", years)
	return subcommands.ExitSuccess
}
