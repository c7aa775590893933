package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/skatz510/foliosim/cmd"
)

func main() {
	// Shell completion hijacks the process when COMP_LINE is set, so it
	// runs before anything else.
	completion().Complete("fsim")

	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "documentation")
	commander.Register(commander.FlagsCommand(), "documentation")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	appFlags := map[string]complete.Predictor{
		"portfolio-file": predict.Files("*.jsonl"),
		"quotes-db":      predict.Files("*.db"),
	}
	return &complete.Command{
		Flags: appFlags,
		Sub: map[string]*complete.Command{
			"init": {Flags: map[string]complete.Predictor{
				"name":     predict.Nothing,
				"years":    predict.Nothing,
				"amount":   predict.Nothing,
				"currency": predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
				"force":    predict.Nothing,
			}},
			"add":      {},
			"rm":       {},
			"weights":  {},
			"equalize": {},
			"period":   {},
			"fetch": {Flags: map[string]complete.Predictor{
				"force":    predict.Nothing,
				"prune":    predict.Nothing,
				"interval": predict.Set{"daily", "weekly", "monthly"},
			}},
			"show": {},
			"history": {Flags: map[string]complete.Predictor{
				"t":    predict.Nothing,
				"last": predict.Nothing,
			}},
			"exposure": {Flags: map[string]complete.Predictor{
				"by": predict.Set{"currency", "sector"},
			}},
			"cagr": {},
			"serve": {Flags: map[string]complete.Predictor{
				"addr": predict.Nothing,
			}},
			"assist": {},
			"topic":  {},
			"help":   {},
			"flags":  {},
		},
	}
}
