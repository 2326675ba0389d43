package pushtask

import (
	"github.com/unidonate/unidonate-vault/vaulthook"
)

type vaultEvents interface {
	Subscribe(fn func(vaulthook.State)) (unsubscribe func())
	SubscribeTransactions(fn func(vaulthook.PendingTransaction)) (unsubscribe func())
}
