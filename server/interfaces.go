package server

import (
	"github.com/unidonate/unidonate-vault/vaulthook"
)

type vaultHookInterface interface {
	State() vaulthook.State
	Deposit(amountText string) error
	Withdraw(amountText string) error
	Refetch()
	Subscribe(fn func(vaulthook.State)) (unsubscribe func())
}
