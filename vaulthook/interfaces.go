package vaulthook

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/unidonate/unidonate-vault/txman"
)

// ContractReader reads the vault and asset token state
type ContractReader interface {
	TotalAssets(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	ConvertToAssets(ctx context.Context, shares *big.Int) (*big.Int, error)
	TotalYieldDonated(ctx context.Context) (*big.Int, error)
	Allowance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// ContractWriter sends the vault and asset token txs
type ContractWriter interface {
	Deposit(auth *bind.TransactOpts, assets *big.Int, receiver common.Address) (*types.Transaction, error)
	Withdraw(auth *bind.TransactOpts, assets *big.Int, receiver, owner common.Address) (*types.Transaction, error)
	Approve(auth *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
}

// TxWatcher reports the terminal result of a submitted tx
type TxWatcher interface {
	Watch(ctx context.Context, txHash common.Hash, onResult func(txman.Result)) (cancel func())
}

// HeadWatcher notifies when new chain state may exist
type HeadWatcher interface {
	Subscribe(ctx context.Context, onHead func(blockNumber uint64)) (unsubscribe func())
}
