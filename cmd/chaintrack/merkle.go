package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
)

// The merkle commands run the engine offline. They need no ledger or store.
func merkleCommand() *cli.Command {
	itemsFlag := &cli.StringFlag{
		Name:     "items",
		Aliases:  []string{"i"},
		Usage:    "File with one item per line, - for stdin",
		Required: true,
	}
	return &cli.Command{
		Name:  "merkle",
		Usage: "Build trees, generate and verify inclusion proofs offline",
		Subcommands: []*cli.Command{
			{
				Name:   "root",
				Usage:  "Print the merkle root of a list of items",
				Flags:  []cli.Flag{itemsFlag},
				Action: merkleRootAction,
			},
			{
				Name:  "proof",
				Usage: "Print the inclusion proof of one item as JSON",
				Flags: []cli.Flag{
					itemsFlag,
					&cli.StringFlag{
						Name:  "item",
						Usage: "Item to prove. The first occurrence is used",
					},
					&cli.IntFlag{
						Name:  "index",
						Usage: "Leaf index to prove, for lists with duplicates",
						Value: -1,
					},
				},
				Action: merkleProofAction,
			},
			{
				Name:  "verify",
				Usage: "Verify an inclusion proof JSON {leaf, proof, root}",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "proof",
						Usage:    "Proof file, - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "item",
						Usage: "Also check that the proof leaf is this item's hash",
					},
				},
				Action: merkleVerifyAction,
			},
		},
	}
}

func merkleRootAction(c *cli.Context) error {
	items, err := readItems(c, c.String("items"))
	if err != nil {
		return err
	}
	tree, err := merkle.BuildMerkleTree(items)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, tree.RootHex())
	return nil
}

func merkleProofAction(c *cli.Context) error {
	items, err := readItems(c, c.String("items"))
	if err != nil {
		return err
	}
	tree, err := merkle.BuildMerkleTree(items)
	if err != nil {
		return err
	}

	var proof *merkle.InclusionProof
	switch {
	case c.Int("index") >= 0:
		proof, err = tree.GenerateProof(c.Int("index"))
	case c.String("item") != "":
		proof, err = tree.GetProof(c.String("item"))
	default:
		return cli.Exit("either --item or --index is required", 2)
	}
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, proof)
}

func merkleVerifyAction(c *cli.Context) error {
	data, err := readInput(c, c.String("proof"))
	if err != nil {
		return err
	}
	proof, err := merkle.ParseInclusionProof(data)
	if err != nil {
		return err
	}

	if item := c.String("item"); item != "" && proof.Leaf != merkle.HashLeaf(item) {
		printVerdict(c.App.Writer, false, "proof leaf is not the hash of "+item)
		return cli.Exit("", 1)
	}
	if !merkle.VerifyProof(proof) {
		printVerdict(c.App.Writer, false, "proof does not reconstruct root "+merkle.FormatDigest(proof.Root))
		return cli.Exit("", 1)
	}
	printVerdict(c.App.Writer, true, "root "+merkle.FormatDigest(proof.Root))
	return nil
}

// readItems reads one item per line, skipping blank lines. Surrounding
// whitespace is trimmed.
func readItems(c *cli.Context, path string) ([]string, error) {
	data, err := readInput(c, path)
	if err != nil {
		return nil, err
	}
	var items []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 64<<10), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			items = append(items, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
