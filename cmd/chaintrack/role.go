package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/util"
)

func roleCommand() *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:     "role",
				Usage:    "manufacturer, distributor or retailer",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address",
				Required: true,
			},
		}
	}
	return &cli.Command{
		Name:  "role",
		Usage: "Register and check supply chain roles on the ledger",
		Subcommands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Register a wallet for a role",
				Flags:  flags(),
				Action: roleRegisterAction,
			},
			{
				Name:   "check",
				Usage:  "Check whether a wallet holds a role",
				Flags:  flags(),
				Action: roleCheckAction,
			},
		},
	}
}

func parseRoleArgs(c *cli.Context) (types.UserRole, common.Address, error) {
	role, err := types.ParseUserRole(c.String("role"))
	if err != nil {
		return "", common.Address{}, err
	}
	addr, err := util.NormalizeAddress(c.String("address"))
	if err != nil {
		return "", common.Address{}, err
	}
	return role, addr, nil
}

func roleRegisterAction(c *cli.Context) error {
	role, addr, err := parseRoleArgs(c)
	if err != nil {
		return err
	}
	if !role.IsLedgerRole() {
		return fmt.Errorf("role %s is not registered on the ledger", role)
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	receipt, err := rt.ledger.RegisterRole(c.Context, role, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "registered %s as %s in tx %s\n", addr.Hex(), role, receipt.TxHash.Hex())
	return nil
}

func roleCheckAction(c *cli.Context) error {
	role, addr, err := parseRoleArgs(c)
	if err != nil {
		return err
	}

	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ok, err := rt.ledger.HasRole(c.Context, role, addr)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(c.App.Writer, "%s is a %s\n", addr.Hex(), role)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%s is not a %s\n", addr.Hex(), role)
	return cli.Exit("", 1)
}
