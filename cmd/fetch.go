package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/skatz510/foliosim/date"
	"github.com/skatz510/foliosim/yahoo"
)

type fetchCmd struct {
	force    bool
	prune    bool
	interval string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download market data for the holdings" }
func (*fetchCmd) Usage() string {
	return `fetch [-force] [-prune] [-interval weekly]

  Downloads the description and price history of every holding and stores
  them in the quote database. Tickers already fetched today are skipped
  unless -force is given. With -prune, cached data for tickers no longer
  held is deleted afterwards.

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "refetch even if already fetched today")
	f.BoolVar(&c.prune, "prune", false, "drop cached data for tickers no longer held")
	f.StringVar(&c.interval, "interval", "weekly", "price sampling interval: daily, weekly or monthly")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	interval, err := date.ParseInterval(c.interval)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}

	store, err := OpenStore()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	var failures int
	if p.Len() == 0 {
		fmt.Fprintln(os.Stderr, "the portfolio is empty, nothing to fetch")
	} else {
		client := yahoo.NewClient()
		rng := date.LastYears(p.Years)
		for _, ticker := range p.Tickers() {
			if !c.force {
				if on, err := store.FetchedOn(ctx, ticker); err == nil && on == date.Today() {
					fmt.Printf("%s: up to date\n", ticker)
					continue
				}
			}
			a, err := client.Fetch(ticker, rng, interval)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
				failures++
				continue
			}
			if err := store.SaveAsset(ctx, a); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
				failures++
				continue
			}
			fmt.Printf("%s: %d prices (%s)\n", ticker, a.Prices.Len(), a.Name)
		}
	}

	if c.prune {
		cached, err := store.Tickers(ctx)
		if err != nil {
			return fail(err)
		}
		for _, ticker := range cached {
			if _, held := p.Weight(ticker); held {
				continue
			}
			if err := store.Delete(ctx, ticker); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
				failures++
				continue
			}
			fmt.Printf("%s: pruned from %s\n", ticker, store.Path())
		}
	}

	if failures > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
