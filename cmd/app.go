// Package cmd implements the CLI application to simulate a portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/quotedb"
)

// Register registers all the subcommands on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "portfolio")
	c.Register(&addCmd{}, "portfolio")
	c.Register(&rmCmd{}, "portfolio")
	c.Register(&weightsCmd{}, "portfolio")
	c.Register(&equalizeCmd{}, "portfolio")
	c.Register(&periodCmd{}, "portfolio")

	c.Register(&fetchCmd{}, "market data")

	c.Register(&showCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&exposureCmd{}, "reports")
	c.Register(&cagrCmd{}, "reports")

	c.Register(&serveCmd{}, "dashboard")
	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.jsonl", "Path to the portfolio file (JSONL format)")
var quotesDB = flag.String("quotes-db", "quotes.db", "Path to the quote database (SQLite)")

// LoadPortfolio reads the app portfolio file. A missing file yields a new
// empty portfolio.
func LoadPortfolio() (*foliosim.Portfolio, error) {
	p, err := foliosim.LoadPortfolio(*portfolioFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, portfolio file does not exist, starting from an empty portfolio")
		return foliosim.NewPortfolio("", foliosim.DefaultYears, foliosim.M(500000, "USD")), nil
	}
	return p, err
}

// SavePortfolio writes the portfolio back to the app portfolio file.
func SavePortfolio(p *foliosim.Portfolio) error {
	return foliosim.SavePortfolio(*portfolioFile, p)
}

// OpenStore opens the app quote database.
func OpenStore() (*quotedb.Store, error) {
	return quotedb.Open(*quotesDB)
}

// LoadSimulation loads the portfolio and pairs it with the stored market
// data. The caller must close the returned store.
func LoadSimulation(ctx context.Context) (*foliosim.Simulation, *quotedb.Store, error) {
	p, err := LoadPortfolio()
	if err != nil {
		return nil, nil, err
	}
	store, err := OpenStore()
	if err != nil {
		return nil, nil, err
	}
	assets, err := store.LoadAssets(ctx, p.Tickers())
	if err != nil {
		store.Close()
		if errors.Is(err, quotedb.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w (run 'fsim fetch' first)", err)
		}
		return nil, nil, err
	}
	sim, err := foliosim.NewSimulation(p, assets)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return sim, store, nil
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(doc string) {
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		// Fall back to the raw markdown, it is still readable.
		fmt.Println(doc)
		return
	}
	fmt.Print(out)
}

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
