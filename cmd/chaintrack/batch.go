package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/batch"
	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
	"github.com/chaintrack-labs/chaintrack-go/pkg/util"
)

const dateLayout = "2006-01-02"

func batchCodeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "batch-code",
		Aliases:  []string{"b"},
		Usage:    "Batch code",
		Required: true,
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Create batches, record movements and inspect stored batches",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Commit a new batch to the ledger and issue product proofs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product-type", Usage: "Product type, e.g. \"Olive Oil\"", Required: true},
					&cli.StringFlag{Name: "production-date", Usage: "Production date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "expiry-date", Usage: "Expiry date (YYYY-MM-DD)", Required: true},
					&cli.IntFlag{Name: "quantity", Aliases: []string{"n"}, Usage: "Number of product identifiers to generate"},
					&cli.StringFlag{Name: "batch-code", Usage: "Batch code, generated when omitted"},
					&cli.StringFlag{Name: "items", Usage: "File with explicit product identifiers, one per line"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the issued products (proofs and verify links) to this JSON file"},
				},
				Action: batchCreateAction,
			},
			{
				Name:   "resubmit",
				Usage:  "Retry the ledger commit of a pending or failed batch",
				Flags:  []cli.Flag{batchCodeFlag()},
				Action: batchResubmitAction,
			},
			{
				Name:  "movement",
				Usage: "Record a custody hand-off of a batch",
				Flags: []cli.Flag{
					batchCodeFlag(),
					&cli.StringFlag{Name: "to", Usage: "Receiving wallet address", Required: true},
					&cli.StringFlag{Name: "location", Usage: "Where the hand-off happened"},
					&cli.StringFlag{Name: "status", Usage: "created, in_transit or received", Value: "in_transit"},
				},
				Action: batchMovementAction,
			},
			{
				Name:   "show",
				Usage:  "Print a stored batch with its products and movements as JSON",
				Flags:  []cli.Flag{batchCodeFlag()},
				Action: batchShowAction,
			},
			{
				Name:   "list",
				Usage:  "List stored batches",
				Action: batchListAction,
			},
		},
	}
}

func batchCreateAction(c *cli.Context) error {
	req := &batch.CreateBatchRequest{
		ProductType: c.String("product-type"),
		Quantity:    c.Int("quantity"),
		BatchCode:   c.String("batch-code"),
	}
	var err error
	if req.ProductionDate, err = time.Parse(dateLayout, c.String("production-date")); err != nil {
		return fmt.Errorf("invalid production date: %w", err)
	}
	if req.ExpiryDate, err = time.Parse(dateLayout, c.String("expiry-date")); err != nil {
		return fmt.Errorf("invalid expiry date: %w", err)
	}
	if path := c.String("items"); path != "" {
		if req.Items, err = readItems(c, path); err != nil {
			return err
		}
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, createErr := rt.manager.CreateBatch(c.Context, req)
	if res == nil {
		return createErr
	}

	w := c.App.Writer
	fmt.Fprintf(w, "batch:    %s\n", res.Batch.BatchCode)
	fmt.Fprintf(w, "products: %d\n", len(res.Products))
	fmt.Fprintf(w, "root:     %s\n", res.Batch.MerkleRoot.Hex())
	fmt.Fprintf(w, "ledger:   %s\n", res.Batch.LedgerStatus)
	if res.Receipt != nil {
		fmt.Fprintf(w, "tx:       %s\n", res.Receipt.TxHash.Hex())
		if link := config.ExplorerTxURL(rt.cfg.ChainID, res.Receipt.TxHash); link != "" {
			fmt.Fprintf(w, "explorer: %s\n", link)
		}
	}

	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		if err := writeJSON(f, res.Products); err != nil {
			return fmt.Errorf("failed to write products: %w", err)
		}
		fmt.Fprintf(w, "proofs:   %s\n", path)
	}

	if createErr != nil {
		return fmt.Errorf("%w (retry with: chaintrack batch resubmit --batch-code %s)", createErr, res.Batch.BatchCode)
	}
	return nil
}

func batchResubmitAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	b, err := rt.manager.ResubmitBatch(c.Context, c.String("batch-code"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "batch %s is %s after %d ledger attempts\n", b.BatchCode, b.LedgerStatus, b.LedgerAttempts)
	return nil
}

func batchMovementAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	from, err := rt.ledger.GetFromAddress()
	if err != nil {
		return err
	}
	mv, err := rt.manager.RecordMovement(c.Context, &batch.MovementRequest{
		BatchCode:   c.String("batch-code"),
		FromAddress: from.Hex(),
		ToAddress:   c.String("to"),
		Location:    c.String("location"),
		Status:      c.String("status"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "movement %s: %s -> %s (%s)\n",
		mv.ID, util.ShortAddress(mv.FromAddress), util.ShortAddress(mv.ToAddress), mv.Status)
	if mv.LedgerTxHash != nil {
		fmt.Fprintf(c.App.Writer, "tx: %s\n", mv.LedgerTxHash.Hex())
	}
	return nil
}

func batchShowAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	details, err := rt.manager.GetBatchDetails(c.String("batch-code"))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, details)
}

func batchListAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	batches, err := rt.manager.ListBatches()
	if err != nil {
		return err
	}
	for _, b := range batches {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%d\t%s\t%s\n",
			b.BatchCode, b.ProductType, b.Quantity, b.LedgerStatus, b.MerkleRoot.Hex())
	}
	return nil
}
