package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	faint  = color.New(color.Faint)
)

func printVerdict(w io.Writer, ok bool, detail string) {
	if ok {
		green.Fprint(w, "✔ VALID")
	} else {
		red.Fprint(w, "✘ INVALID")
	}
	if detail != "" {
		faint.Fprintf(w, "  %s", detail)
	}
	fmt.Fprintln(w)
}

func printVerification(w io.Writer, res *verification.Result) {
	switch res.Status {
	case verification.StatusVerified:
		green.Fprintln(w, "✔ AUTHENTIC")
	case verification.StatusPending:
		yellow.Fprintln(w, "… PENDING")
	default:
		red.Fprintln(w, "✘ NOT VERIFIED")
	}

	fmt.Fprintf(w, "  product:  %s\n", res.ProductID)
	fmt.Fprintf(w, "  batch:    %s\n", res.BatchCode)
	if res.Reason != "" {
		fmt.Fprintf(w, "  reason:   %s\n", res.Reason)
	}
	if res.Batch != nil {
		fmt.Fprintf(w, "  type:     %s\n", res.Batch.ProductType)
		fmt.Fprintf(w, "  produced: %s\n", res.Batch.ProductionDate.Format("2006-01-02"))
		fmt.Fprintf(w, "  expires:  %s\n", res.Batch.ExpiryDate.Format("2006-01-02"))
		fmt.Fprintf(w, "  root:     %s\n", res.Batch.MerkleRoot.Hex())
	}
	if res.LedgerRoot != nil {
		fmt.Fprintf(w, "  ledger:   %s\n", res.LedgerRoot.Hex())
	}
	for _, m := range res.Movements {
		faint.Fprintf(w, "  %s  %s -> %s  %s (%s)\n",
			m.Timestamp.Format("2006-01-02 15:04"),
			m.FromAddress.Hex(), m.ToAddress.Hex(), m.Location, m.Status)
	}
}
