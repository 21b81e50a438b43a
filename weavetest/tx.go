package weavetest

import (
	"github.com/iov-one/swap"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg swap.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ swap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (swap.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message routed by its path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Accounts are declared as written by this message.
	Accounts []swap.Address
	// Err if set is returned by the Validate method.
	Err error
}

var (
	_ swap.Msg           = (*Msg)(nil)
	_ swap.AccountLister = (*Msg)(nil)
)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) WritableAccounts() []swap.Address {
	return m.Accounts
}
