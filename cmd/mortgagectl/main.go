// Command mortgagectl reconciles a lender amortization schedule against a
// ledger export without running the server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&reconcileCmd{}, "mortgage")
	commander.Register(&amortizeCmd{}, "mortgage")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
