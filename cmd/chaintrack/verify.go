package main

import (
	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/client"
	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
	"github.com/chaintrack-labs/chaintrack-go/pkg/logger"
	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify a product against the batch root committed on the ledger",
		Flags: []cli.Flag{
			batchCodeFlag(),
			&cli.StringFlag{
				Name:     "product-id",
				Usage:    "Product identifier",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Verify through a running chaintrack server instead of the local store",
				EnvVars: []string{config.EnvServerURL},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: verifyAction,
	}
}

// verifyAction exits 1 for a product that is not verified and 3 while the
// batch is pending on the ledger
func verifyAction(c *cli.Context) error {
	res, err := verifyProduct(c)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, res); err != nil {
			return err
		}
	} else {
		printVerification(c.App.Writer, res)
	}

	switch res.Status {
	case verification.StatusVerified:
		return nil
	case verification.StatusPending:
		return cli.Exit("", 3)
	default:
		return cli.Exit("", 1)
	}
}

func verifyProduct(c *cli.Context) (*verification.Result, error) {
	batchCode, productID := c.String("batch-code"), c.String("product-id")

	if serverURL := c.String("server"); serverURL != "" {
		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
		if err != nil {
			return nil, err
		}
		api, err := client.NewClient(&client.ClientConfig{ServerURL: serverURL, Logger: l})
		if err != nil {
			return nil, err
		}
		return api.VerifyProduct(c.Context, batchCode, productID)
	}

	rt, err := newRuntime(c)
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	return rt.verifier.VerifyProduct(c.Context, batchCode, productID)
}
