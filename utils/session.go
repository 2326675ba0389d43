package utils

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	zkevmtypes "github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/unidonate/unidonate-vault/gerror"
)

// Session is the wallet session shared by the components that act on behalf of an account.
// It is read only from the consumers point of view.
type Session interface {
	// Account returns the connected account and whether there is one
	Account() (common.Address, bool)
	// Signer returns the transaction signer bound to ctx, or an error when writes are not possible yet
	Signer(ctx context.Context) (*bind.TransactOpts, error)
}

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeystoreSession is a session backed by an encrypted keystore file
type KeystoreSession struct {
	address         common.Address
	key             *keystore.Key
	expectedChainID uint64
	node            chainIDReader

	mu   sync.Mutex
	auth *bind.TransactOpts
}

// NewKeystoreSession decrypts the keystore file. expectedChainID 0 accepts any network.
func NewKeystoreSession(ks zkevmtypes.KeystoreFileConfig, expectedChainID uint64, node chainIDReader) (*KeystoreSession, error) {
	keystoreEncrypted, err := os.ReadFile(filepath.Clean(ks.Path))
	if err != nil {
		return nil, errors.Wrap(err, "reading keystore")
	}
	key, err := keystore.DecryptKey(keystoreEncrypted, ks.Password)
	if err != nil {
		return nil, errors.Wrap(err, "decrypting keystore")
	}
	log.Infof("session opened for account %s", key.Address.String())
	return &KeystoreSession{
		address:         key.Address,
		key:             key,
		expectedChainID: expectedChainID,
		node:            node,
	}, nil
}

// Account returns the keystore account
func (s *KeystoreSession) Account() (common.Address, bool) {
	return s.address, true
}

// Signer checks the node network and returns a signer for it
func (s *KeystoreSession) Signer(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auth == nil {
		chainID, err := s.node.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrapf(gerror.ErrWriteNotReady, "reading chain id: %v", err)
		}
		if s.expectedChainID != 0 && chainID.Uint64() != s.expectedChainID {
			return nil, errors.Wrapf(gerror.ErrNetworkMismatch, "node chain id %s, expected %d", chainID, s.expectedChainID)
		}
		auth, err := bind.NewKeyedTransactorWithChainID(s.key.PrivateKey, chainID)
		if err != nil {
			return nil, errors.Wrap(gerror.ErrWriteNotReady, err.Error())
		}
		s.auth = auth
	}
	auth := *s.auth
	auth.Context = ctx
	return &auth, nil
}

// ReadOnlySession watches an account without being able to sign for it
type ReadOnlySession struct {
	address common.Address
}

// NewReadOnlySession creates a view only session. A zero address means no account.
func NewReadOnlySession(address common.Address) *ReadOnlySession {
	return &ReadOnlySession{address: address}
}

// Account returns the watched account
func (s *ReadOnlySession) Account() (common.Address, bool) {
	return s.address, s.address != (common.Address{})
}

// Signer always fails for read only sessions
func (s *ReadOnlySession) Signer(context.Context) (*bind.TransactOpts, error) {
	return nil, gerror.ErrWriteNotReady
}
