package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/skatz510/foliosim"
)

type initCmd struct {
	name     string
	years    int
	amount   float64
	currency string
	force    bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new portfolio file" }
func (*initCmd) Usage() string {
	return `init [-name <name>] [-years <n>] [-amount <n>] [-currency <code>]

  Creates a new empty portfolio file.

Usage Examples:
$ fsim init -name core -amount 500000 -currency USD

`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "a label for the portfolio")
	f.IntVar(&c.years, "years", foliosim.DefaultYears, "look-back period in years")
	f.Float64Var(&c.amount, "amount", 500000, "initial investment amount")
	f.StringVar(&c.currency, "currency", "USD", "reporting currency")
	f.BoolVar(&c.force, "force", false, "overwrite an existing portfolio file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.force {
		if _, err := os.Stat(*portfolioFile); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %q already exists, use -force to overwrite\n", *portfolioFile)
			return subcommands.ExitFailure
		}
	}

	p := foliosim.NewPortfolio(c.name, c.years, foliosim.M(c.amount, c.currency))
	if err := SavePortfolio(p); err != nil {
		return fail(err)
	}
	fmt.Printf("Created %s\n", *portfolioFile)
	return subcommands.ExitSuccess
}
