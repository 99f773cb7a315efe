package caller

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

func (cc *ContractCaller) buildTransactionOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if cc.signer == nil {
		return nil, contractCaller.ErrSignerRequired
	}
	return cc.signer.GetTransactOpts(ctx)
}

// sendTransaction builds a transaction through build, then signs, sends and
// waits for it
func (cc *ContractCaller) sendTransaction(
	ctx context.Context,
	operation string,
	build func(opts *bind.TransactOpts) (*ethereumTypes.Transaction, error),
) (*types.TxReceipt, error) {
	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, classifyError(err, operation)
	}
	if err := cc.wait(ctx); err != nil {
		return nil, err
	}

	tx, err := build(txOpts)
	if err != nil {
		return nil, classifyError(err, operation)
	}

	cc.logger.Sugar().Infow("Signing and sending transaction",
		zap.String("operation", operation),
		zap.String("from", cc.signer.GetFromAddress().Hex()),
		zap.String("to", cc.contractAddress.Hex()),
	)

	receipt, err := cc.signer.SignAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, classifyError(err, operation)
	}
	return toReceipt(receipt), nil
}
