package etherman

import (
	"context"
	"errors"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/unidonate/unidonate-vault/etherman/smartcontracts/erc20"
	"github.com/unidonate/unidonate-vault/etherman/smartcontracts/unidonatevault"
)

// ErrVaultAddressNotSet is used when the client is created without a vault address
var ErrVaultAddressNotSet = errors.New("vault address not configured")

type ethClienter interface {
	bind.ContractBackend
	ethereum.TransactionReader
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
}

// Client is the vault etherman. It reads the vault and its asset token and sends
// the vault transactions.
type Client struct {
	EtherClient ethClienter
	Vault       *unidonatevault.Unidonatevault
	Asset       *erc20.Erc20

	vaultAddr common.Address
	assetAddr common.Address
	logger    *log.Logger
}

// NewClient dials the node and binds the vault contracts.
func NewClient(cfg Config) (*Client, error) {
	// Connect to ethereum node
	ethClient, err := ethclient.Dial(cfg.URL)
	if err != nil {
		log.Errorf("error connecting to %s: %+v", cfg.URL, err)
		return nil, err
	}
	return NewClientWithBackend(ethClient, cfg.VaultAddress, cfg.TokenAddress)
}

// NewClientWithBackend binds the vault contracts over an existing backend. A zero
// assetAddr is resolved by calling asset() on the vault.
func NewClientWithBackend(backend ethClienter, vaultAddr, assetAddr common.Address) (*Client, error) {
	if vaultAddr == (common.Address{}) {
		return nil, ErrVaultAddressNotSet
	}
	vault, err := unidonatevault.NewUnidonatevault(vaultAddr, backend)
	if err != nil {
		return nil, err
	}
	if assetAddr == (common.Address{}) {
		assetAddr, err = vault.Asset(&bind.CallOpts{Pending: false})
		if err != nil {
			log.Errorf("error reading the vault asset address: %v", err)
			return nil, err
		}
		log.Infof("vault asset resolved from the contract: %s", assetAddr.String())
	}
	asset, err := erc20.NewErc20(assetAddr, backend)
	if err != nil {
		return nil, err
	}
	return &Client{
		EtherClient: backend,
		Vault:       vault,
		Asset:       asset,
		vaultAddr:   vaultAddr,
		assetAddr:   assetAddr,
		logger:      log.WithFields("vault", vaultAddr.String()),
	}, nil
}

// VaultAddress returns the bound vault contract address
func (c *Client) VaultAddress() common.Address {
	return c.vaultAddr
}

// AssetAddress returns the bound asset token address
func (c *Client) AssetAddress() common.Address {
	return c.assetAddr
}

// TotalAssets reads the vault TVL in asset units
func (c *Client) TotalAssets(ctx context.Context) (*big.Int, error) {
	return c.Vault.TotalAssets(&bind.CallOpts{Context: ctx})
}

// BalanceOf reads the share balance of an account
func (c *Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.Vault.BalanceOf(&bind.CallOpts{Context: ctx}, account)
}

// ConvertToAssets asks the vault how many assets the given shares are worth
func (c *Client) ConvertToAssets(ctx context.Context, shares *big.Int) (*big.Int, error) {
	return c.Vault.ConvertToAssets(&bind.CallOpts{Context: ctx}, shares)
}

// TotalYieldDonated reads the amount of yield donated so far in asset units
func (c *Client) TotalYieldDonated(ctx context.Context) (*big.Int, error) {
	return c.Vault.TotalYieldDonated(&bind.CallOpts{Context: ctx})
}

// Allowance reads how many assets the vault can pull from owner
func (c *Client) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.Asset.Allowance(&bind.CallOpts{Context: ctx}, owner, c.vaultAddr)
}

// Deposit sends deposit(assets, receiver)
func (c *Client) Deposit(auth *bind.TransactOpts, assets *big.Int, receiver common.Address) (*types.Transaction, error) {
	tx, err := c.Vault.Deposit(auth, assets, receiver)
	if err != nil {
		c.logger.Errorf("failed to call SMC deposit. Amount: %s, receiver: %s, error: %v", assets.String(), receiver.String(), err)
		return nil, err
	}
	c.logger.Infof("deposit tx %s sent. Amount: %s", tx.Hash().String(), assets.String())
	return tx, nil
}

// Withdraw sends withdraw(assets, receiver, owner)
func (c *Client) Withdraw(auth *bind.TransactOpts, assets *big.Int, receiver, owner common.Address) (*types.Transaction, error) {
	tx, err := c.Vault.Withdraw(auth, assets, receiver, owner)
	if err != nil {
		c.logger.Errorf("failed to call SMC withdraw. Amount: %s, owner: %s, error: %v", assets.String(), owner.String(), err)
		return nil, err
	}
	c.logger.Infof("withdraw tx %s sent. Amount: %s", tx.Hash().String(), assets.String())
	return tx, nil
}

// Approve lets the vault pull amount assets from the signer
func (c *Client) Approve(auth *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	tx, err := c.Asset.Approve(auth, c.vaultAddr, amount)
	if err != nil {
		c.logger.Errorf("failed to call SMC approve. Amount: %s, error: %v", amount.String(), err)
		return nil, err
	}
	c.logger.Infof("approve tx %s sent. Amount: %s", tx.Hash().String(), amount.String())
	return tx, nil
}

// CheckTxWasMined check if a tx was already mined
func (c *Client) CheckTxWasMined(ctx context.Context, txHash common.Hash) (bool, *types.Receipt, error) {
	receipt, err := c.EtherClient.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return false, nil, nil
	} else if err != nil {
		return false, nil, err
	}

	return true, receipt, nil
}

// BlockNumber returns the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.EtherClient.BlockNumber(ctx)
}

// ChainID returns the chain id of the node
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.EtherClient.ChainID(ctx)
}

// SubscribeNewHead subscribes to new chain heads. Only available on websocket endpoints.
func (c *Client) SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error) {
	return c.EtherClient.SubscribeNewHead(ctx, ch)
}
