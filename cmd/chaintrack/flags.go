package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
)

var globalFlags = []cli.Flag{
	&cli.UintFlag{
		Name:    "chain-id",
		Aliases: []string{"chain"},
		Usage:   fmt.Sprintf("Chain ID: %s", config.GetSupportedChainIDsString()),
		Value:   uint(config.ChainId_PolygonAmoy),
		EnvVars: []string{config.EnvChainID},
	},
	&cli.StringFlag{
		Name:    "rpc-url",
		Aliases: []string{"rpc"},
		Usage:   "JSON-RPC endpoint URL (defaults to the chain's public endpoint)",
		EnvVars: []string{config.EnvRPCURL},
	},
	&cli.StringFlag{
		Name:    "contract-address",
		Usage:   "Supply chain contract address (defaults to the known deployment)",
		EnvVars: []string{config.EnvContractAddress},
	},
	&cli.StringFlag{
		Name:    "private-key",
		Usage:   "Hex private key used to sign ledger writes. Omit for read-only use",
		EnvVars: []string{config.EnvPrivateKey},
	},
	&cli.StringFlag{
		Name:    "base-url",
		Usage:   "Base URL of the verify links encoded in product QR codes",
		Value:   "http://localhost:8080",
		EnvVars: []string{config.EnvBaseURL},
	},
	&cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "HTTP server port",
		Value:   8080,
		EnvVars: []string{config.EnvPort},
	},
	&cli.StringFlag{
		Name:    "persistence-type",
		Usage:   "Storage backend: memory, badger, redis or sqlite",
		Value:   string(config.PersistenceTypeBadger),
		EnvVars: []string{config.EnvPersistenceType},
	},
	&cli.StringFlag{
		Name:    "data-path",
		Usage:   "Badger data directory",
		Value:   "./chaintrack-data",
		EnvVars: []string{config.EnvDataPath},
	},
	&cli.StringFlag{
		Name:    "sqlite-path",
		Usage:   "SQLite database file",
		Value:   "./chaintrack.db",
		EnvVars: []string{config.EnvSQLitePath},
	},
	&cli.StringFlag{
		Name:    "redis-address",
		Usage:   "Redis address (host:port)",
		Value:   "localhost:6379",
		EnvVars: []string{config.EnvRedisAddress},
	},
	&cli.StringFlag{
		Name:    "redis-password",
		Usage:   "Redis password",
		EnvVars: []string{config.EnvRedisPassword},
	},
	&cli.IntFlag{
		Name:    "redis-db",
		Usage:   "Redis database number",
		EnvVars: []string{config.EnvRedisDB},
	},
	&cli.Float64Flag{
		Name:    "rpc-rate-limit",
		Usage:   "Maximum RPC requests per second, 0 disables limiting",
		EnvVars: []string{config.EnvRPCRateLimit},
	},
	&cli.DurationFlag{
		Name:    "reconcile-interval",
		Usage:   "How often the server resubmits unconfirmed batches, 0 disables",
		Value:   time.Minute,
		EnvVars: []string{config.EnvReconcileInterval},
	},
	&cli.BoolFlag{
		Name:    "onchain-proof-check",
		Usage:   "Also ask the contract to verify inclusion proofs",
		EnvVars: []string{config.EnvOnChainProofCheck},
	},
	&cli.BoolFlag{
		Name:    "dry-run",
		Usage:   "Use an in-process ledger instead of the chain",
		EnvVars: []string{config.EnvDryRun},
	},
	&cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"verbose"},
		Usage:   "Enable debug logging",
		EnvVars: []string{config.EnvDebug},
	},
}

func parseConfig(c *cli.Context) (*config.ChainTrackConfig, error) {
	cfg := &config.ChainTrackConfig{
		ChainID:           config.ChainId(c.Uint("chain-id")),
		RpcUrl:            c.String("rpc-url"),
		ContractAddress:   c.String("contract-address"),
		PrivateKey:        c.String("private-key"),
		Port:              c.Int("port"),
		BaseURL:           c.String("base-url"),
		RPCRateLimit:      c.Float64("rpc-rate-limit"),
		ReconcileInterval: c.Duration("reconcile-interval"),
		OnChainProofCheck: c.Bool("onchain-proof-check"),
		DryRun:            c.Bool("dry-run"),
		Debug:             c.Bool("debug"),
		Persistence: &config.PersistenceConfig{
			Type:          config.PersistenceType(c.String("persistence-type")),
			DataPath:      c.String("data-path"),
			SQLitePath:    c.String("sqlite-path"),
			RedisAddress:  c.String("redis-address"),
			RedisPassword: c.String("redis-password"),
			RedisDB:       c.Int("redis-db"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
