package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chaintrack",
		Usage: "Commit supply chain batches to a ledger and verify products against them",
		Description: `chaintrack commits a batch of product identifiers to the supply chain
contract as a single merkle root and issues every product an inclusion proof.
A product is authentic when its identifier hashes to the leaf of its proof,
the proof rebuilds the batch root and that root is the one on the ledger.

With --dry-run the ledger lives in the process. Its state only lasts for a
single invocation, which suits serve or memory persistence.`,
		Version:        "1.0.0",
		Flags:          globalFlags,
		ExitErrHandler: func(c *cli.Context, err error) {},
		Commands: []*cli.Command{
			merkleCommand(),
			batchCommand(),
			verifyCommand(),
			roleCommand(),
			serveCommand(),
		},
	}
}
