package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/batch"
	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller/caller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/logger"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	persistenceFactory "github.com/chaintrack-labs/chaintrack-go/pkg/persistence/factory"
	"github.com/chaintrack-labs/chaintrack-go/pkg/transactionSigner"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

// dryRunSender signs in-process ledger writes when no key is configured.
// It is the first default anvil account.
var dryRunSender = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// runtime holds the wired components shared by the commands
type runtime struct {
	cfg      *config.ChainTrackConfig
	logger   *zap.Logger
	store    persistence.IBatchPersistence
	ledger   contractCaller.IContractCaller
	manager  *batch.Manager
	verifier *verification.Verifier

	closers []func()
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := parseConfig(c)
	if err != nil {
		return nil, err
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: l}
	rt.closers = append(rt.closers, func() { _ = l.Sync() })

	l.Sugar().Debugw("Using configuration",
		"chain", cfg.ChainName,
		"chainId", cfg.ChainID,
		"contract", cfg.ContractAddress,
		"persistence", cfg.Persistence.String(),
		"dryRun", cfg.DryRun,
		"readOnly", !cfg.CanWrite(),
	)

	store, err := persistenceFactory.NewPersistence(cfg.Persistence, l)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open persistence: %w", err)
	}
	rt.store = store
	rt.closers = append(rt.closers, func() {
		if err := store.Close(); err != nil {
			l.Sugar().Warnw("Failed to close persistence", "error", err)
		}
	})

	if cfg.DryRun {
		rt.ledger, err = newDryRunLedger(cfg)
	} else {
		rt.ledger, err = rt.dialLedger(c.Context)
	}
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.manager = batch.NewManager(store, rt.ledger, &batch.Config{
		BaseURL:       cfg.BaseURL,
		LedgerTimeout: config.GetLedgerTimeoutForChain(cfg.ChainID),
	}, l)
	rt.verifier = verification.NewVerifier(store, rt.ledger, &verification.Config{
		Retry:             cfg.LedgerRetry,
		OnChainProofCheck: cfg.OnChainProofCheck,
	}, l)
	return rt, nil
}

func (rt *runtime) dialLedger(ctx context.Context) (contractCaller.IContractCaller, error) {
	client, err := ethclient.DialContext(ctx, rt.cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rt.cfg.RpcUrl, err)
	}
	rt.closers = append(rt.closers, client.Close)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read chain ID: %v", contractCaller.ErrLedgerUnavailable, err)
	}
	if chainID.Uint64() != uint64(rt.cfg.ChainID) {
		return nil, fmt.Errorf("rpc endpoint serves chain %d, expected %d", chainID.Uint64(), rt.cfg.ChainID)
	}

	var signer transactionSigner.ITransactionSigner
	if rt.cfg.CanWrite() {
		signer, err = transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
			PrivateKey: rt.cfg.PrivateKey,
		}, client, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction signer: %w", err)
		}
	}

	cc, err := caller.NewContractCaller(client, &caller.ContractCallerConfig{
		ContractAddress: common.HexToAddress(rt.cfg.ContractAddress),
		RateLimit:       rt.cfg.RPCRateLimit,
	}, signer, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract caller: %w", err)
	}
	return cc, nil
}

// newDryRunLedger returns an in-process ledger where the sender holds every
// writing role
func newDryRunLedger(cfg *config.ChainTrackConfig) (*contractCaller.InMemoryLedger, error) {
	sender := dryRunSender
	if cfg.CanWrite() {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		sender = crypto.PubkeyToAddress(key.PublicKey)
	}

	ledger := contractCaller.NewInMemoryLedger(sender)
	for _, role := range types.SupportedRoles {
		if role.IsLedgerRole() {
			ledger.Grant(role, sender)
		}
	}
	return ledger, nil
}

// Close releases everything newRuntime opened, in reverse order
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
