package pushtask

import (
	"context"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/unidonate/unidonate-vault/messagepush"
	"github.com/unidonate/unidonate-vault/vaulthook"
)

const txQueueSize = 64

// VaultPushHandler forwards the vault tx updates and snapshots to the message push producer.
// Snapshots are coalesced, only the latest one waiting is pushed.
type VaultPushHandler struct {
	events              vaultEvents
	vault               common.Address
	messagePushProducer messagepush.KafkaProducer

	txs       chan vaulthook.PendingTransaction
	snapshots chan vaulthook.State
}

// NewVaultPushHandler creates the handler. Nothing is pushed until Start is called.
func NewVaultPushHandler(events vaultEvents, vault common.Address, producer messagepush.KafkaProducer) *VaultPushHandler {
	return &VaultPushHandler{
		events:              events,
		vault:               vault,
		messagePushProducer: producer,
		txs:                 make(chan vaulthook.PendingTransaction, txQueueSize),
		snapshots:           make(chan vaulthook.State, 1),
	}
}

// Start pushes the events until ctx is done
func (ins *VaultPushHandler) Start(ctx context.Context) {
	unsubscribeTxs := ins.events.SubscribeTransactions(ins.enqueueTx)
	defer unsubscribeTxs()
	unsubscribeState := ins.events.Subscribe(ins.enqueueSnapshot)
	defer unsubscribeState()

	log.Debugf("Starting vault push task")
	for {
		select {
		case <-ctx.Done():
			return
		case tx := <-ins.txs:
			ins.pushTx(tx)
		case s := <-ins.snapshots:
			ins.pushSnapshot(s)
		}
	}
}

func (ins *VaultPushHandler) enqueueTx(tx vaulthook.PendingTransaction) {
	select {
	case ins.txs <- tx:
	default:
		log.Warnf("push queue full, dropping update of tx %s (%s)", tx.ID, tx.Status)
	}
}

func (ins *VaultPushHandler) enqueueSnapshot(s vaulthook.State) {
	for {
		select {
		case ins.snapshots <- s:
			return
		default:
		}
		select {
		case <-ins.snapshots:
		default:
		}
	}
}

func (ins *VaultPushHandler) pushTx(tx vaulthook.PendingTransaction) {
	update := &messagepush.TransactionUpdate{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Status:      tx.Status.String(),
		Account:     tx.Account.Hex(),
		Vault:       ins.vault.Hex(),
		Error:       tx.Error,
		SubmittedAt: unixMilli(tx.SubmittedAt),
		FinishedAt:  unixMilli(tx.FinishedAt),
	}
	if tx.Amount != nil {
		update.Amount = tx.Amount.String()
	}
	if tx.HasHash() {
		update.Hash = tx.Hash.Hex()
	}
	if err := ins.messagePushProducer.PushTransactionUpdate(update); err != nil {
		log.Errorf("push tx update error, id: %v, status: %v, err: %v", tx.ID, tx.Status, err)
	}
}

func (ins *VaultPushHandler) pushSnapshot(s vaulthook.State) {
	update := &messagepush.SnapshotUpdate{
		Vault:          s.Vault.Hex(),
		TotalTVL:       s.TotalTVL.String(),
		UserBalance:    s.UserBalance.String(),
		UserShares:     s.UserShares.String(),
		TotalDonations: s.TotalDonations.String(),
		APY:            s.APY.String(),
		BlockNumber:    s.BlockNumber,
		Version:        s.Version,
	}
	if s.Connected {
		update.Account = s.Account.Hex()
	}
	if err := ins.messagePushProducer.PushSnapshotUpdate(update); err != nil {
		log.Errorf("push snapshot error, version: %v, err: %v", s.Version, err)
	}
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
