package swap

import (
	"reflect"

	"github.com/iov-one/swap/errors"
)

// Msg is message for the ledger to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the attributes is not valid. Validate
	// cannot access the database, only stateless checks are made.
	Validate() error
}

// AccountLister is implemented by messages that declare the accounts they
// write to. The runtime refuses to execute two transactions with
// overlapping write sets at the same time.
type AccountLister interface {
	WritableAccounts() []Address
}

// Tx represent the data sent from the user to the chain.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
//
// Each Application must define their own tx type, which
// embeds all the middlewares that we wish to use.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	// Big thanks to Tendermint for the reflection voodoo.
	res := reflect.ValueOf(msg)
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrHuman, "destination must be a pointer")
	}
	if res.Kind() == reflect.Ptr {
		res = res.Elem()
	}
	if !res.Type().AssignableTo(dest.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(res)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// WritableAccounts returns the accounts declared by given transaction. A
// transaction implementing AccountLister itself (ie. to add the accounts
// of its signers) is asked directly, otherwise the message is. Transactions
// that implement neither declare no accounts.
func WritableAccounts(tx Tx) []Address {
	if al, ok := tx.(AccountLister); ok {
		return al.WritableAccounts()
	}
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return nil
	}
	if al, ok := msg.(AccountLister); ok {
		return al.WritableAccounts()
	}
	return nil
}
