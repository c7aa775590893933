package cmd

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/skatz510/foliosim/web"
	"github.com/skatz510/foliosim/yahoo"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "start the interactive web dashboard" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>]

  Starts the web dashboard. Edits made in the browser stay in memory until
  saved from the page.

`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		return fail(err)
	}
	store, err := OpenStore()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	server, err := web.New(web.Config{
		Addr:          c.addr,
		PortfolioPath: *portfolioFile,
		Portfolio:     p,
		Store:         store,
		Fetcher:       yahoo.NewClient(),
		Logger:        logger,
	})
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			return fail(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}
